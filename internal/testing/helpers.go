package testing

import (
	"context"
	"testing"
	"time"

	"github.com/jgyselov/dynamic-cim/internal/store"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CallNames returns "<verb> <kind>/<name>" for every recorded write, in order.
func CallNames(m *store.Memory) []string {
	calls := m.Calls()
	names := make([]string, 0, len(calls))
	for _, c := range calls {
		names = append(names, string(c.Verb)+" "+string(c.Kind)+"/"+c.Name)
	}
	return names
}
