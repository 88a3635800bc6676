package testing

import (
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/store"
)

// HubFixture describes the records of a hub cluster before a test runs.
type HubFixture struct {
	namespace string
	imageSets []string
	agents    []*v1beta1.Agent
}

// NewHubFixture creates an empty hub fixture for namespace.
func NewHubFixture(namespace string) *HubFixture {
	return &HubFixture{namespace: namespace}
}

// Namespace returns the namespace agents default to.
func (f *HubFixture) Namespace() string {
	return f.namespace
}

// WithImageSets adds ClusterImageSets.
func (f *HubFixture) WithImageSets(names ...string) *HubFixture {
	f.imageSets = append(f.imageSets, names...)
	return f
}

// WithAgents adds agents.
func (f *HubFixture) WithAgents(agents ...*v1beta1.Agent) *HubFixture {
	f.agents = append(f.agents, agents...)
	return f
}

// Memory returns an in-memory store seeded with the fixture records.
func (f *HubFixture) Memory(t *testing.T) *store.Memory {
	t.Helper()
	m := store.NewMemory()
	for _, name := range f.imageSets {
		set := v1beta1.ClusterImageSet{ObjectMeta: metav1.ObjectMeta{Name: name}}
		seed(t, m, v1beta1.KindClusterImageSet, &set)
	}
	for _, agent := range f.agents {
		seed(t, m, v1beta1.KindAgent, agent)
	}
	return m
}

// SeedAgent adds an agent to an existing store.
func SeedAgent(t *testing.T, m *store.Memory, agent *v1beta1.Agent) {
	t.Helper()
	seed(t, m, v1beta1.KindAgent, agent)
}

func seed(t *testing.T, m *store.Memory, kind v1beta1.Kind, obj any) {
	t.Helper()
	u, err := v1beta1.ToUnstructured(kind, obj)
	if err != nil {
		t.Fatalf("failed to convert %s: %v", kind, err)
	}
	m.Seed(kind, u)
}
