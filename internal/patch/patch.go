package patch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// OpKind is the JSON patch operation name.
type OpKind string

// Supported operation kinds.
const (
	OpAdd     OpKind = "add"
	OpReplace OpKind = "replace"
	OpRemove  OpKind = "remove"
)

// Operation is a single JSON patch operation scoped to one record.
type Operation struct {
	Op    OpKind
	Path  string
	Value any
}

// MarshalJSON encodes the operation in RFC 6902 form. The value member is
// always present for add and replace, even when it is a zero value.
func (o Operation) MarshalJSON() ([]byte, error) {
	if o.Op == OpRemove {
		return json.Marshal(struct {
			Op   OpKind `json:"op"`
			Path string `json:"path"`
		}{o.Op, o.Path})
	}
	return json.Marshal(struct {
		Op    OpKind `json:"op"`
		Path  string `json:"path"`
		Value any    `json:"value"`
	}{o.Op, o.Path, o.Value})
}

// String renders the operation for logs.
func (o Operation) String() string {
	if o.Op == OpRemove {
		return fmt.Sprintf("%s %s", o.Op, o.Path)
	}
	return fmt.Sprintf("%s %s=%v", o.Op, o.Path, o.Value)
}

// Ops is an ordered patch request.
type Ops []Operation

// Empty reports whether there is nothing to submit.
func (o Ops) Empty() bool {
	return len(o) == 0
}

// Paths returns the target path of every operation in order.
func (o Ops) Paths() []string {
	paths := make([]string, len(o))
	for i, op := range o {
		paths[i] = op.Path
	}
	return paths
}

// Marshal encodes the sequence as a JSON patch document.
func (o Ops) Marshal() ([]byte, error) {
	if o == nil {
		o = Ops{}
	}
	data, err := json.Marshal([]Operation(o))
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch: %w", err)
	}
	return data, nil
}

// Append adds an operation setting path to desired when it differs from
// observed. The kind is replace when observed is present and add otherwise.
// Nothing is appended when both values are semantically equal, including when
// both are absent.
func Append(ops *Ops, path string, desired, observed any) {
	if Equal(desired, observed) {
		return
	}
	kind := OpAdd
	if Present(observed) {
		kind = OpReplace
	}
	*ops = append(*ops, Operation{Op: kind, Path: path, Value: desired})
}

// Remove appends a remove operation for path when observed is present.
func Remove(ops *Ops, path string, observed any) {
	if !Present(observed) {
		return
	}
	*ops = append(*ops, Operation{Op: OpRemove, Path: path})
}

// Present reports whether a value counts as set on a record: nil, nil
// pointers, empty strings, empty slices and empty maps are absent.
func Present(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return Present(rv.Elem().Interface())
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	default:
		return true
	}
}

// Equal compares two field values by their JSON representation, so typed
// structs compare equal to their decoded map form and numeric widths do not
// matter. Arrays are compared element by element in order.
func Equal(desired, observed any) bool {
	desiredSet, observedSet := Present(desired), Present(observed)
	if !desiredSet || !observedSet {
		return desiredSet == observedSet
	}
	a, errA := normalize(desired)
	b, errB := normalize(observed)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(desired, observed)
	}
	return reflect.DeepEqual(a, b)
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EscapeKey escapes a map key for use as a JSON pointer segment.
func EscapeKey(key string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(key)
}
