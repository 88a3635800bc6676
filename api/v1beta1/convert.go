package v1beta1

import (
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
)

// ToUnstructured converts a typed record into its unstructured form, stamping
// apiVersion and kind from the given record kind.
func ToUnstructured(kind Kind, obj any) (*unstructured.Unstructured, error) {
	content, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %s to unstructured: %w", kind, err)
	}
	u := &unstructured.Unstructured{Object: content}
	u.SetGroupVersionKind(kind.GroupVersionKind())
	return u, nil
}

// FromUnstructured decodes an unstructured record into out.
func FromUnstructured(u *unstructured.Unstructured, out any) error {
	if u == nil {
		return fmt.Errorf("cannot convert nil object")
	}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(u.Object, out); err != nil {
		return fmt.Errorf("failed to convert %s %s/%s: %w", u.GetKind(), u.GetNamespace(), u.GetName(), err)
	}
	return nil
}

// AgentsFromList decodes a list of unstructured agents.
func AgentsFromList(items []unstructured.Unstructured) ([]Agent, error) {
	agents := make([]Agent, 0, len(items))
	for i := range items {
		var a Agent
		if err := FromUnstructured(&items[i], &a); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, nil
}
