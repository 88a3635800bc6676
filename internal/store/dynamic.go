package store

import (
	"context"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/patch"
)

// Dynamic is a Store backed by the Kubernetes API server.
type Dynamic struct {
	client  dynamic.Interface
	timeout time.Duration
	dryRun  bool
}

// Option configures a Dynamic store.
type Option func(*Dynamic)

// WithRequestTimeout bounds every single API request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Dynamic) {
		s.timeout = d
	}
}

// WithServerDryRun makes the API server validate and admit writes without
// persisting them.
func WithServerDryRun() Option {
	return func(s *Dynamic) {
		s.dryRun = true
	}
}

// NewDynamic creates a Store on top of a dynamic client.
func NewDynamic(client dynamic.Interface, opts ...Option) *Dynamic {
	s := &Dynamic{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*Dynamic)(nil)

func (s *Dynamic) resource(kind v1beta1.Kind, namespace string) (dynamic.ResourceInterface, error) {
	gvr, ok := kind.Resource()
	if !ok {
		return nil, fmt.Errorf("unknown record kind %q", kind)
	}
	if kind.Namespaced() && namespace != "" {
		return s.client.Resource(gvr).Namespace(namespace), nil
	}
	return s.client.Resource(gvr), nil
}

func (s *Dynamic) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Dynamic) dryRunOption() []string {
	if s.dryRun {
		return []string{metav1.DryRunAll}
	}
	return nil
}

// Get returns a single record.
func (s *Dynamic) Get(ctx context.Context, kind v1beta1.Kind, namespace, name string) (obj *unstructured.Unstructured, err error) {
	defer func(start time.Time) { recordRequest(string(kind), "get", start, err) }(time.Now())

	ri, err := s.resource(kind, namespace)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return ri.Get(ctx, name, metav1.GetOptions{})
}

// List returns the records of kind in namespace matching selector.
func (s *Dynamic) List(ctx context.Context, kind v1beta1.Kind, namespace string, selector labels.Selector) (items []unstructured.Unstructured, err error) {
	defer func(start time.Time) { recordRequest(string(kind), "list", start, err) }(time.Now())

	ri, err := s.resource(kind, namespace)
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	opts := metav1.ListOptions{}
	if selector != nil && !selector.Empty() {
		opts.LabelSelector = selector.String()
	}
	list, err := ri.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Create stores a new record.
func (s *Dynamic) Create(ctx context.Context, kind v1beta1.Kind, obj *unstructured.Unstructured) (created *unstructured.Unstructured, err error) {
	defer func(start time.Time) { recordRequest(string(kind), "create", start, err) }(time.Now())

	ri, err := s.resource(kind, obj.GetNamespace())
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.FromContext(ctx).V(1).Info("creating record", "kind", kind, "namespace", obj.GetNamespace(), "name", obj.GetName())
	return ri.Create(ctx, obj, metav1.CreateOptions{DryRun: s.dryRunOption()})
}

// Patch submits ops as a JSON patch against the record named by current.
func (s *Dynamic) Patch(ctx context.Context, kind v1beta1.Kind, current *unstructured.Unstructured, ops patch.Ops) (patched *unstructured.Unstructured, err error) {
	if ops.Empty() {
		return current, nil
	}
	defer func(start time.Time) { recordRequest(string(kind), "patch", start, err) }(time.Now())

	ri, err := s.resource(kind, current.GetNamespace())
	if err != nil {
		return nil, err
	}
	data, err := ops.Marshal()
	if err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	log.FromContext(ctx).V(1).Info("patching record", "kind", kind, "namespace", current.GetNamespace(), "name", current.GetName(), "paths", ops.Paths())
	return ri.Patch(ctx, current.GetName(), types.JSONPatchType, data, metav1.PatchOptions{DryRun: s.dryRunOption()})
}
