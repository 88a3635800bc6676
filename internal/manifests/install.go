package manifests

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/util/naming"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// Default networks of a new AgentClusterInstall.
const (
	DefaultClusterNetworkCIDR       = "10.128.0.0/14"
	DefaultClusterNetworkHostPrefix = 23
	DefaultServiceNetworkCIDR       = "172.30.0.0/16"
)

// AgentClusterInstallParams are the inputs of a new AgentClusterInstall.
type AgentClusterInstallParams struct {
	Namespace                string
	ClusterDeploymentRefName string
	ImageSetName             string
	HighAvailabilityMode     values.HighAvailabilityMode
}

// AgentClusterInstall builds the install record of a cluster with default
// networks. Networking and VIPs are set later by the networking step.
func AgentClusterInstall(p AgentClusterInstallParams) *v1beta1.AgentClusterInstall {
	return &v1beta1.AgentClusterInstall{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1beta1.ExtensionsGroupVersion.String(),
			Kind:       string(v1beta1.KindAgentClusterInstall),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.AgentClusterInstall(p.ClusterDeploymentRefName),
			Namespace: p.Namespace,
		},
		Spec: v1beta1.AgentClusterInstallSpec{
			ClusterDeploymentRef: v1beta1.LocalObjectReference{Name: p.ClusterDeploymentRefName},
			ImageSetRef:          &v1beta1.ClusterImageSetRef{Name: p.ImageSetName},
			Networking: v1beta1.Networking{
				ClusterNetwork: []v1beta1.ClusterNetworkEntry{{
					CIDR:       DefaultClusterNetworkCIDR,
					HostPrefix: DefaultClusterNetworkHostPrefix,
				}},
				ServiceNetwork: []string{DefaultServiceNetworkCIDR},
			},
			ProvisionRequirements: v1beta1.ProvisionRequirements{
				ControlPlaneAgents: p.HighAvailabilityMode.ControlPlaneAgents(),
			},
		},
	}
}

// AgentClusterInstallObject is AgentClusterInstall in unstructured form.
func AgentClusterInstallObject(p AgentClusterInstallParams) (*unstructured.Unstructured, error) {
	return v1beta1.ToUnstructured(v1beta1.KindAgentClusterInstall, AgentClusterInstall(p))
}
