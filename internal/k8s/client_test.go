package k8s

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

const kubeconfig = `
apiVersion: v1
kind: Config
clusters:
- name: hub
  cluster:
    server: https://hub.example.com:6443
contexts:
- name: hub
  context:
    cluster: hub
    user: admin
    namespace: lab
current-context: hub
users:
- name: admin
  user:
    token: secret-token
`

func TestNewClientsFromBytes(t *testing.T) {
	t.Parallel()

	clients, err := NewClientsFromBytes([]byte(kubeconfig))
	require.NoError(t, err)
	assert.NotNil(t, clients.Dynamic)
	assert.NotNil(t, clients.Core)
	assert.Equal(t, "lab", clients.Namespace)
}

func TestNewClientsFromBytes_Invalid(t *testing.T) {
	t.Parallel()

	_, err := NewClientsFromBytes([]byte("clusters: ["))
	assert.Error(t, err)
}

func TestPullSecretFrom(t *testing.T) {
	t.Parallel()

	core := k8sfake.NewSimpleClientset(
		&corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{Name: "pull-secret", Namespace: "openshift-config"},
			Type:       corev1.SecretTypeDockerConfigJson,
			Data:       map[string][]byte{corev1.DockerConfigJsonKey: []byte(`{"auths":{}}`)},
		},
		&corev1.Secret{
			ObjectMeta: metav1.ObjectMeta{Name: "opaque", Namespace: "lab"},
			Data:       map[string][]byte{"token": []byte("x")},
		},
	)
	ctx := context.Background()

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr string
	}{
		{name: "qualified", ref: "openshift-config/pull-secret", want: `{"auths":{}}`},
		{name: "default namespace", ref: "opaque", wantErr: "not found in secret lab/opaque"},
		{name: "missing", ref: "lab/absent", wantErr: "failed to get secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PullSecretFrom(ctx, core, tt.ref, "lab")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
