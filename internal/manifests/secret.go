package manifests

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/util/naming"
)

// PullSecret builds the image pull secret referenced by a ClusterDeployment.
func PullSecret(namespace, cluster, pullSecret string) *corev1.Secret {
	return &corev1.Secret{
		TypeMeta: metav1.TypeMeta{APIVersion: "v1", Kind: string(v1beta1.KindSecret)},
		ObjectMeta: metav1.ObjectMeta{
			Name:      naming.PullSecret(cluster),
			Namespace: namespace,
		},
		Type: corev1.SecretTypeDockerConfigJson,
		StringData: map[string]string{
			corev1.DockerConfigJsonKey: pullSecret,
		},
	}
}

// PullSecretObject is PullSecret in unstructured form.
func PullSecretObject(namespace, cluster, pullSecret string) (*unstructured.Unstructured, error) {
	return v1beta1.ToUnstructured(v1beta1.KindSecret, PullSecret(namespace, cluster, pullSecret))
}
