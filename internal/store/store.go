package store

import (
	"context"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/patch"
)

// Reader observes records.
type Reader interface {
	// Get returns a single record. A missing record yields an error for which
	// apierrors.IsNotFound is true.
	Get(ctx context.Context, kind v1beta1.Kind, namespace, name string) (*unstructured.Unstructured, error)

	// List returns the records of kind in namespace matching selector. An
	// empty namespace lists across namespaces; a nil selector matches all.
	List(ctx context.Context, kind v1beta1.Kind, namespace string, selector labels.Selector) ([]unstructured.Unstructured, error)
}

// Store creates and patches records. Every call is individually fallible;
// there are no transactions across records.
type Store interface {
	Reader

	// Create stores a new record and returns it as persisted.
	Create(ctx context.Context, kind v1beta1.Kind, obj *unstructured.Unstructured) (*unstructured.Unstructured, error)

	// Patch applies ops to the record identified by current and returns the
	// patched record. Callers must not pass an empty sequence.
	Patch(ctx context.Context, kind v1beta1.Kind, current *unstructured.Unstructured, ops patch.Ops) (*unstructured.Unstructured, error)
}
