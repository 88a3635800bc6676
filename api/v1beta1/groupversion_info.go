// Package v1beta1 contains the subset of the hive and assisted-installer API
// types the deployment wizard reads and writes.
//
// The records are stored and patched as unstructured objects through the
// dynamic client; these typed mirrors exist for building bodies and reading
// observed state.
package v1beta1

import (
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Kind identifies one of the record kinds the wizard works with.
type Kind string

const (
	KindSecret              Kind = "Secret"
	KindClusterDeployment   Kind = "ClusterDeployment"
	KindAgentClusterInstall Kind = "AgentClusterInstall"
	KindAgent               Kind = "Agent"
	KindClusterImageSet     Kind = "ClusterImageSet"
)

var (
	// HiveGroupVersion is the group version of ClusterDeployment and ClusterImageSet.
	HiveGroupVersion = schema.GroupVersion{Group: "hive.openshift.io", Version: "v1"}

	// ExtensionsGroupVersion is the group version of AgentClusterInstall.
	ExtensionsGroupVersion = schema.GroupVersion{Group: "extensions.hive.openshift.io", Version: "v1beta1"}

	// AgentGroupVersion is the group version of Agent.
	AgentGroupVersion = schema.GroupVersion{Group: "agent-install.openshift.io", Version: "v1beta1"}
)

var resources = map[Kind]schema.GroupVersionResource{
	KindSecret:              {Group: "", Version: "v1", Resource: "secrets"},
	KindClusterDeployment:   HiveGroupVersion.WithResource("clusterdeployments"),
	KindAgentClusterInstall: ExtensionsGroupVersion.WithResource("agentclusterinstalls"),
	KindAgent:               AgentGroupVersion.WithResource("agents"),
	KindClusterImageSet:     HiveGroupVersion.WithResource("clusterimagesets"),
}

// Resource returns the GroupVersionResource backing the kind.
func (k Kind) Resource() (schema.GroupVersionResource, bool) {
	gvr, ok := resources[k]
	return gvr, ok
}

// GroupVersionKind returns the fully qualified kind.
func (k Kind) GroupVersionKind() schema.GroupVersionKind {
	gvr := resources[k]
	return gvr.GroupVersion().WithKind(string(k))
}

// Namespaced reports whether records of the kind live in a namespace.
func (k Kind) Namespaced() bool {
	return k != KindClusterImageSet
}

// ListKinds maps each resource to its list kind, as required by the fake
// dynamic client.
func ListKinds() map[schema.GroupVersionResource]string {
	out := make(map[schema.GroupVersionResource]string, len(resources))
	for kind, gvr := range resources {
		out[gvr] = string(kind) + "List"
	}
	return out
}
