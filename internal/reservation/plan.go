package reservation

import (
	"k8s.io/apimachinery/pkg/types"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/patch"
	"github.com/jgyselov/dynamic-cim/internal/util/labels"
)

// Patch paths on Agent records.
const (
	pathLabels         = "/metadata/labels"
	pathClusterRefName = "/spec/clusterDeploymentName"
)

// Action tells whether a host patch releases or reserves an agent.
type Action string

const (
	ActionRelease Action = "release"
	ActionReserve Action = "reserve"
)

// HostPatch is the patch of a single agent.
type HostPatch struct {
	Agent  v1beta1.Agent
	Action Action
	Ops    patch.Ops
}

// Plan is the set of agent patches needed to make the reservations of a
// cluster match the desired selection.
type Plan struct {
	Cluster types.NamespacedName
	Value   string
	Release []HostPatch
	Reserve []HostPatch
	// Missing are desired UIDs no observed agent carries.
	Missing []string
}

// Empty reports whether the observed reservations already match.
func (p Plan) Empty() bool {
	return len(p.Release) == 0 && len(p.Reserve) == 0
}

// NewPlan computes the release and reserve patches for cluster given the
// desired agent UIDs and all candidate agents.
func NewPlan(cluster types.NamespacedName, desired []string, agents []v1beta1.Agent) Plan {
	plan := Plan{Cluster: cluster, Value: ReservedValue(cluster)}

	want := make(map[string]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}
	seen := make(map[string]bool, len(agents))

	for _, agent := range agents {
		uid := string(agent.UID)
		seen[uid] = true

		labeled := hasReservation(agent, plan.Value)
		referenced := referencesCluster(agent, cluster)

		switch {
		case want[uid] && !(labeled && referenced):
			plan.Reserve = append(plan.Reserve, reservePatch(agent, cluster, plan.Value))
		case !want[uid] && (labeled || referenced):
			plan.Release = append(plan.Release, releasePatch(agent, labeled, referenced))
		}
	}

	for _, id := range desired {
		if !seen[id] {
			plan.Missing = append(plan.Missing, id)
		}
	}
	return plan
}

func hasReservation(agent v1beta1.Agent, value string) bool {
	v, ok := labels.ReservedBy(agent.Labels)
	return ok && v == value
}

func referencesCluster(agent v1beta1.Agent, cluster types.NamespacedName) bool {
	ref := agent.Spec.ClusterDeploymentName
	return ref != nil && ref.Name == cluster.Name && ref.Namespace == cluster.Namespace
}

func releasePatch(agent v1beta1.Agent, labeled, referenced bool) HostPatch {
	hp := HostPatch{Agent: agent, Action: ActionRelease}
	if labeled {
		desired := labels.NewLabelBuilder(agent.Labels).WithoutReservation().Build()
		patch.Append(&hp.Ops, pathLabels, desired, agent.Labels)
	}
	if referenced {
		patch.Remove(&hp.Ops, pathClusterRefName, agent.Spec.ClusterDeploymentName)
	}
	return hp
}

func reservePatch(agent v1beta1.Agent, cluster types.NamespacedName, value string) HostPatch {
	hp := HostPatch{Agent: agent, Action: ActionReserve}
	desired := labels.NewLabelBuilder(agent.Labels).WithReservation(value).Build()
	patch.Append(&hp.Ops, pathLabels, desired, agent.Labels)
	patch.Append(&hp.Ops, pathClusterRefName,
		&v1beta1.ClusterReference{Name: cluster.Name, Namespace: cluster.Namespace},
		agent.Spec.ClusterDeploymentName)
	return hp
}
