package wizard

import (
	"github.com/charmbracelet/huh"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// HighAvailabilityOptions contains the control plane modes.
var HighAvailabilityOptions = []huh.Option[values.HighAvailabilityMode]{
	huh.NewOption("Full (3 control plane agents)", values.HighAvailabilityFull),
	huh.NewOption("None (single node)", values.HighAvailabilityNone),
}

// VersionsToOptions converts ClusterImageSet names to options. The first
// entry is the default.
func VersionsToOptions(imageSets []string) []huh.Option[string] {
	opts := make([]huh.Option[string], len(imageSets))
	for i, name := range imageSets {
		opts[i] = huh.NewOption(name, name)
	}
	if len(opts) > 0 {
		opts[0] = opts[0].Selected(true)
	}
	return opts
}

// AgentsToOptions converts agents to options keyed by UID. Agents already
// in selected are preselected.
func AgentsToOptions(agents []v1beta1.Agent, selected []string) []huh.Option[string] {
	pre := make(map[string]bool, len(selected))
	for _, id := range selected {
		pre[id] = true
	}
	opts := make([]huh.Option[string], len(agents))
	for i, a := range agents {
		label := a.Spec.Hostname
		if label == "" {
			label = a.Name
		}
		if a.Spec.Role != "" {
			label += " (" + a.Spec.Role + ")"
		}
		uid := string(a.UID)
		opts[i] = huh.NewOption(label, uid).Selected(pre[uid])
	}
	return opts
}
