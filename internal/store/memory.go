package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/types"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/patch"
)

// Verb names a store operation.
type Verb string

const (
	VerbGet    Verb = "get"
	VerbList   Verb = "list"
	VerbCreate Verb = "create"
	VerbPatch  Verb = "patch"
)

// Call records one write issued against a Memory store.
type Call struct {
	Verb      Verb
	Kind      v1beta1.Kind
	Namespace string
	Name      string
	Ops       patch.Ops
}

// Reactor can fail a write before it is applied.
type Reactor func(call Call) error

type objectKey struct {
	kind      v1beta1.Kind
	namespace string
	name      string
}

// Memory is an in-process Store. Patches are applied with JSON patch
// semantics against the stored copy, so replace on a missing path fails the
// same way it does on the API server.
type Memory struct {
	mu       sync.Mutex
	objects  map[objectKey]*unstructured.Unstructured
	calls    []Call
	reactors []Reactor
	version  int
}

// NewMemory creates a Memory store seeded with objs. The kind of each object
// is taken from its own kind field.
func NewMemory(objs ...*unstructured.Unstructured) *Memory {
	m := &Memory{objects: map[objectKey]*unstructured.Unstructured{}}
	for _, obj := range objs {
		m.Seed(v1beta1.Kind(obj.GetKind()), obj)
	}
	return m
}

var _ Store = (*Memory)(nil)

// Seed stores obj without recording a call.
func (m *Memory) Seed(kind v1beta1.Kind, obj *unstructured.Unstructured) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(kind, obj.DeepCopy())
}

// AddReactor registers a hook consulted before every write.
func (m *Memory) AddReactor(r Reactor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reactors = append(m.reactors, r)
}

// Calls returns the writes issued so far, in order.
func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *Memory) put(kind v1beta1.Kind, obj *unstructured.Unstructured) {
	m.version++
	if obj.GetUID() == "" {
		obj.SetUID(types.UID(fmt.Sprintf("%s-%s-%s", obj.GetNamespace(), obj.GetName(), kind)))
	}
	obj.SetResourceVersion(strconv.Itoa(m.version))
	m.objects[objectKey{kind, obj.GetNamespace(), obj.GetName()}] = obj
}

func (m *Memory) react(call Call) error {
	m.calls = append(m.calls, call)
	for _, r := range m.reactors {
		if err := r(call); err != nil {
			return err
		}
	}
	return nil
}

func notFound(kind v1beta1.Kind, name string) error {
	gvr, _ := kind.Resource()
	return apierrors.NewNotFound(gvr.GroupResource(), name)
}

// Get returns a copy of a stored record.
func (m *Memory) Get(_ context.Context, kind v1beta1.Kind, namespace, name string) (obj *unstructured.Unstructured, err error) {
	defer func(start time.Time) { recordRequest(string(kind), string(VerbGet), start, err) }(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.objects[objectKey{kind, namespace, name}]
	if !ok {
		return nil, notFound(kind, name)
	}
	return stored.DeepCopy(), nil
}

// List returns copies of the matching records sorted by namespace and name.
func (m *Memory) List(_ context.Context, kind v1beta1.Kind, namespace string, selector labels.Selector) (items []unstructured.Unstructured, err error) {
	defer func(start time.Time) { recordRequest(string(kind), string(VerbList), start, err) }(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, obj := range m.objects {
		if key.kind != kind || (namespace != "" && key.namespace != namespace) {
			continue
		}
		if selector != nil && !selector.Matches(labels.Set(obj.GetLabels())) {
			continue
		}
		items = append(items, *obj.DeepCopy())
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].GetNamespace() != items[j].GetNamespace() {
			return items[i].GetNamespace() < items[j].GetNamespace()
		}
		return items[i].GetName() < items[j].GetName()
	})
	return items, nil
}

// Create stores a copy of obj. An existing record with the same key yields an
// AlreadyExists error.
func (m *Memory) Create(_ context.Context, kind v1beta1.Kind, obj *unstructured.Unstructured) (created *unstructured.Unstructured, err error) {
	defer func(start time.Time) { recordRequest(string(kind), string(VerbCreate), start, err) }(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.react(Call{Verb: VerbCreate, Kind: kind, Namespace: obj.GetNamespace(), Name: obj.GetName()}); err != nil {
		return nil, err
	}
	if _, exists := m.objects[objectKey{kind, obj.GetNamespace(), obj.GetName()}]; exists {
		gvr, _ := kind.Resource()
		return nil, apierrors.NewAlreadyExists(gvr.GroupResource(), obj.GetName())
	}
	stored := obj.DeepCopy()
	m.put(kind, stored)
	return stored.DeepCopy(), nil
}

// Patch applies ops to the stored copy of the record named by current.
func (m *Memory) Patch(_ context.Context, kind v1beta1.Kind, current *unstructured.Unstructured, ops patch.Ops) (patched *unstructured.Unstructured, err error) {
	if ops.Empty() {
		return current, nil
	}
	defer func(start time.Time) { recordRequest(string(kind), string(VerbPatch), start, err) }(time.Now())

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.react(Call{Verb: VerbPatch, Kind: kind, Namespace: current.GetNamespace(), Name: current.GetName(), Ops: ops}); err != nil {
		return nil, err
	}
	key := objectKey{kind, current.GetNamespace(), current.GetName()}
	stored, ok := m.objects[key]
	if !ok {
		return nil, notFound(kind, current.GetName())
	}

	doc, err := json.Marshal(stored.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s %s: %w", kind, current.GetName(), err)
	}
	out, err := ops.ApplyTo(doc)
	if err != nil {
		gvr, _ := kind.Resource()
		return nil, apierrors.NewBadRequest(fmt.Sprintf("%s %q: %v", gvr.Resource, current.GetName(), err))
	}
	result := &unstructured.Unstructured{}
	if err := result.UnmarshalJSON(out); err != nil {
		return nil, fmt.Errorf("failed to decode patched %s %s: %w", kind, current.GetName(), err)
	}
	m.put(kind, result)
	return result.DeepCopy(), nil
}
