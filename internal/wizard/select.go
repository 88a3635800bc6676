package wizard

import (
	"strings"

	"k8s.io/apimachinery/pkg/labels"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/manifests"
	cimlabels "github.com/jgyselov/dynamic-cim/internal/util/labels"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// HostCount returns how many hosts auto-selection picks for a cluster.
// Dedicated workers are added to highly available clusters unless the
// control plane hosts also run workloads.
func HostCount(mode values.HighAvailabilityMode, useMastersAsWorkers bool) int {
	n := mode.ControlPlaneAgents()
	if mode != values.HighAvailabilityNone && !useMastersAsWorkers {
		n += 2
	}
	return n
}

// Matching returns the agents matching the locations and label filters of
// the selection.
func Matching(agents []v1beta1.Agent, v values.HostsSelection) []v1beta1.Agent {
	ls := manifests.LocationSelector(v.Locations)
	sel, err := manifests.AgentSelector(&ls)
	if err != nil {
		return nil
	}
	want := labels.Set{}
	for _, l := range v.AgentLabels {
		if k, val, ok := strings.Cut(l, "="); ok {
			want[k] = val
		}
	}

	var out []v1beta1.Agent
	for _, a := range agents {
		set := labels.Set(a.Labels)
		if !sel.Matches(set) {
			continue
		}
		if len(want) > 0 && !labels.SelectorFromSet(want).Matches(set) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// AutoSelect picks up to count matching agents, preferring agents that are
// not reserved by any cluster.
func AutoSelect(agents []v1beta1.Agent, v values.HostsSelection, count int) []string {
	var free, reserved []string
	for _, a := range Matching(agents, v) {
		if _, ok := cimlabels.ReservedBy(a.Labels); ok {
			reserved = append(reserved, string(a.UID))
			continue
		}
		free = append(free, string(a.UID))
	}
	ids := append(free, reserved...)
	if len(ids) > count {
		ids = ids[:count]
	}
	return ids
}
