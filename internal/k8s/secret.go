package k8s

import (
	"context"
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// PullSecretFrom reads the docker config JSON of an existing pull secret
// given as "namespace/name" or "name" (in defaultNamespace).
func PullSecretFrom(ctx context.Context, core kubernetes.Interface, ref, defaultNamespace string) (string, error) {
	namespace, name := defaultNamespace, ref
	if ns, n, ok := strings.Cut(ref, "/"); ok {
		namespace, name = ns, n
	}

	secret, err := core.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to get secret: %w", err)
	}

	data, ok := secret.Data[corev1.DockerConfigJsonKey]
	if !ok {
		return "", fmt.Errorf("key %s not found in secret %s/%s", corev1.DockerConfigJsonKey, namespace, name)
	}
	return string(data), nil
}
