package v1beta1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ClusterDeployment is the cluster record. Only the metadata and the
// creation-time spec fields the wizard sets are mirrored.
type ClusterDeployment struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ClusterDeploymentSpec `json:"spec,omitempty"`
}

// ClusterDeploymentSpec holds the creation-only attributes of a cluster.
// The backend rejects any change to them once the record exists.
type ClusterDeploymentSpec struct {
	ClusterName       string                 `json:"clusterName"`
	BaseDomain        string                 `json:"baseDomain"`
	PullSecretRef     *LocalObjectReference  `json:"pullSecretRef,omitempty"`
	Platform          Platform               `json:"platform,omitempty"`
	ClusterInstallRef *ClusterInstallLocalRef `json:"clusterInstallRef,omitempty"`
}

// Platform selects the agent based bare metal platform.
type Platform struct {
	AgentBareMetal *AgentBareMetalPlatform `json:"agentBareMetal,omitempty"`
}

// AgentBareMetalPlatform narrows the agents considered for a cluster.
type AgentBareMetalPlatform struct {
	AgentSelector metav1.LabelSelector `json:"agentSelector"`
}

// ClusterInstallLocalRef points a ClusterDeployment at its install record.
type ClusterInstallLocalRef struct {
	Group   string `json:"group"`
	Version string `json:"version"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
}

// LocalObjectReference references a record in the same namespace.
type LocalObjectReference struct {
	Name string `json:"name"`
}

// AgentClusterInstall is the install-configuration record of a cluster.
type AgentClusterInstall struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec AgentClusterInstallSpec `json:"spec,omitempty"`
}

// AgentClusterInstallSpec holds the independently patchable install settings.
type AgentClusterInstallSpec struct {
	ClusterDeploymentRef  LocalObjectReference  `json:"clusterDeploymentRef"`
	ImageSetRef           *ClusterImageSetRef   `json:"imageSetRef,omitempty"`
	Networking            Networking            `json:"networking,omitempty"`
	ProvisionRequirements ProvisionRequirements `json:"provisionRequirements"`
	SSHPublicKey          string                `json:"sshPublicKey,omitempty"`
	APIVIP                string                `json:"apiVIP,omitempty"`
	IngressVIP            string                `json:"ingressVIP,omitempty"`
}

// ClusterImageSetRef names the ClusterImageSet carrying the release image.
type ClusterImageSetRef struct {
	Name string `json:"name"`
}

// Networking defines the pod, service and machine networks of a cluster.
type Networking struct {
	// MachineNetwork is only accepted when VIPs are allocated by DHCP.
	MachineNetwork []MachineNetworkEntry `json:"machineNetwork,omitempty"`
	ClusterNetwork []ClusterNetworkEntry `json:"clusterNetwork,omitempty"`
	// ServiceNetwork supports a single entry.
	ServiceNetwork []string `json:"serviceNetwork,omitempty"`
}

// MachineNetworkEntry is a single IP address block for node IPs.
type MachineNetworkEntry struct {
	CIDR string `json:"cidr"`
}

// ClusterNetworkEntry is a single IP address block for pod IPs.
type ClusterNetworkEntry struct {
	CIDR       string `json:"cidr"`
	HostPrefix int32  `json:"hostPrefix,omitempty"`
}

// ProvisionRequirements defines when the installation starts automatically.
type ProvisionRequirements struct {
	// ControlPlaneAgents must be either 1 or 3.
	ControlPlaneAgents int `json:"controlPlaneAgents"`
	WorkerAgents       int `json:"workerAgents,omitempty"`
}

// Agent is a discovered host that can be reserved by a cluster.
type Agent struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec AgentSpec `json:"spec,omitempty"`
}

// AgentSpec holds the mutable assignment of an agent.
type AgentSpec struct {
	ClusterDeploymentName *ClusterReference `json:"clusterDeploymentName,omitempty"`
	Approved              bool              `json:"approved,omitempty"`
	Hostname              string            `json:"hostname,omitempty"`
	Role                  string            `json:"role,omitempty"`
}

// ClusterReference identifies the ClusterDeployment an agent is assigned to.
type ClusterReference struct {
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// ClusterImageSet is a cluster scoped release image offered as a version.
type ClusterImageSet struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec ClusterImageSetSpec `json:"spec,omitempty"`
}

// ClusterImageSetSpec carries the release image reference.
type ClusterImageSetSpec struct {
	ReleaseImage string `json:"releaseImage"`
}
