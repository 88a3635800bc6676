package manifests

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	cimlabels "github.com/jgyselov/dynamic-cim/internal/util/labels"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

func details() values.Details {
	return values.Details{
		Name:             "edge-01",
		BaseDNSDomain:    "lab.example.com",
		OpenshiftVersion: "img4.14.0",
		PullSecret:       `{"auths":{}}`,
	}
}

func TestPullSecret(t *testing.T) {
	t.Parallel()

	s := PullSecret("lab", "edge-01", `{"auths":{}}`)
	assert.Equal(t, "edge-01-pull-secret", s.Name)
	assert.Equal(t, "lab", s.Namespace)
	assert.Equal(t, corev1.SecretTypeDockerConfigJson, s.Type)
	assert.Equal(t, `{"auths":{}}`, s.StringData[corev1.DockerConfigJsonKey])

	u, err := PullSecretObject("lab", "edge-01", `{"auths":{}}`)
	require.NoError(t, err)
	assert.Equal(t, "Secret", u.GetKind())
	assert.Equal(t, "v1", u.GetAPIVersion())
}

func TestClusterDeployment(t *testing.T) {
	t.Parallel()

	cd := ClusterDeployment(ClusterDeploymentParams{
		Namespace:      "lab",
		PullSecretName: "edge-01-pull-secret",
		Details:        details(),
	})

	assert.Equal(t, "edge-01", cd.Name)
	assert.Equal(t, "edge-01", cd.Spec.ClusterName)
	assert.Equal(t, "lab.example.com", cd.Spec.BaseDomain)
	require.NotNil(t, cd.Spec.PullSecretRef)
	assert.Equal(t, "edge-01-pull-secret", cd.Spec.PullSecretRef.Name)
	require.NotNil(t, cd.Spec.ClusterInstallRef)
	assert.Equal(t, "AgentClusterInstall", cd.Spec.ClusterInstallRef.Kind)
	assert.Equal(t, "edge-01", cd.Spec.ClusterInstallRef.Name)

	u, err := ClusterDeploymentObject(ClusterDeploymentParams{Namespace: "lab", Details: details()})
	require.NoError(t, err)
	assert.Equal(t, v1beta1.KindClusterDeployment.GroupVersionKind(), u.GroupVersionKind())
	baseDomain, _, _ := unstructured.NestedString(u.Object, "spec", "baseDomain")
	assert.Equal(t, "lab.example.com", baseDomain)
}

func TestAgentClusterInstall(t *testing.T) {
	t.Parallel()

	aci := AgentClusterInstall(AgentClusterInstallParams{
		Namespace:                "lab",
		ClusterDeploymentRefName: "edge-01",
		ImageSetName:             "img4.14.0",
		HighAvailabilityMode:     values.HighAvailabilityNone,
	})

	assert.Equal(t, "edge-01", aci.Name)
	assert.Equal(t, "edge-01", aci.Spec.ClusterDeploymentRef.Name)
	require.NotNil(t, aci.Spec.ImageSetRef)
	assert.Equal(t, "img4.14.0", aci.Spec.ImageSetRef.Name)
	assert.Equal(t, 1, aci.Spec.ProvisionRequirements.ControlPlaneAgents)
	assert.Equal(t, []string{DefaultServiceNetworkCIDR}, aci.Spec.Networking.ServiceNetwork)
	assert.Empty(t, aci.Spec.Networking.MachineNetwork)

	full := AgentClusterInstall(AgentClusterInstallParams{ClusterDeploymentRefName: "c", HighAvailabilityMode: values.HighAvailabilityFull})
	assert.Equal(t, 3, full.Spec.ProvisionRequirements.ControlPlaneAgents)
}

func TestHostSelectionAnnotations(t *testing.T) {
	t.Parallel()

	existing := map[string]string{
		"keep":                                "me",
		cimlabels.AnnotationSelectorLocations: `["old"]`,
	}
	got := HostSelectionAnnotations(existing, values.HostsSelection{
		AgentLabels: []string{"rack=r1"},
	})

	want := map[string]string{
		"keep":                              "me",
		cimlabels.AnnotationSelectorLabels:  `["rack=r1"]`,
		cimlabels.AnnotationAutoSelectHosts: "false",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("annotations mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, `["old"]`, existing[cimlabels.AnnotationSelectorLocations], "input must not be modified")
}

func TestLocationSelector(t *testing.T) {
	t.Parallel()

	assert.Equal(t, metav1.LabelSelector{}, LocationSelector(nil))

	ls := LocationSelector([]string{"rack1", "rack2"})
	sel, err := AgentSelector(&ls)
	require.NoError(t, err)
	assert.True(t, sel.Matches(labels.Set{cimlabels.KeyLocation: "rack2"}))
	assert.False(t, sel.Matches(labels.Set{cimlabels.KeyLocation: "rack3"}))
}

func TestAgentSelector_Nil(t *testing.T) {
	t.Parallel()

	sel, err := AgentSelector(nil)
	require.NoError(t, err)
	assert.True(t, sel.Empty())
}

func TestPlatformAgentSelector(t *testing.T) {
	t.Parallel()

	cd := ClusterDeployment(ClusterDeploymentParams{Namespace: "lab", Details: details()})
	require.NotNil(t, PlatformAgentSelector(cd))

	cd.Spec.Platform.AgentBareMetal = nil
	assert.Nil(t, PlatformAgentSelector(cd))
}
