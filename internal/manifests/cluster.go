package manifests

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/util/naming"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// ClusterDeploymentParams are the inputs of a new ClusterDeployment.
type ClusterDeploymentParams struct {
	Namespace      string
	PullSecretName string
	Annotations    map[string]string
	Details        values.Details
}

// ClusterDeployment builds a ClusterDeployment on the agent bare metal
// platform pointing at its AgentClusterInstall and pull secret.
func ClusterDeployment(p ClusterDeploymentParams) *v1beta1.ClusterDeployment {
	return &v1beta1.ClusterDeployment{
		TypeMeta: metav1.TypeMeta{
			APIVersion: v1beta1.HiveGroupVersion.String(),
			Kind:       string(v1beta1.KindClusterDeployment),
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:        p.Details.Name,
			Namespace:   p.Namespace,
			Annotations: p.Annotations,
		},
		Spec: v1beta1.ClusterDeploymentSpec{
			ClusterName:   p.Details.Name,
			BaseDomain:    p.Details.BaseDNSDomain,
			PullSecretRef: &v1beta1.LocalObjectReference{Name: p.PullSecretName},
			Platform: v1beta1.Platform{
				AgentBareMetal: &v1beta1.AgentBareMetalPlatform{},
			},
			ClusterInstallRef: &v1beta1.ClusterInstallLocalRef{
				Group:   v1beta1.ExtensionsGroupVersion.Group,
				Version: v1beta1.ExtensionsGroupVersion.Version,
				Kind:    string(v1beta1.KindAgentClusterInstall),
				Name:    naming.AgentClusterInstall(p.Details.Name),
			},
		},
	}
}

// ClusterDeploymentObject is ClusterDeployment in unstructured form.
func ClusterDeploymentObject(p ClusterDeploymentParams) (*unstructured.Unstructured, error) {
	return v1beta1.ToUnstructured(v1beta1.KindClusterDeployment, ClusterDeployment(p))
}
