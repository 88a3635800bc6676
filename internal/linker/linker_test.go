package linker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/apimachinery/pkg/types"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/patch"
	"github.com/jgyselov/dynamic-cim/internal/reservation"
	"github.com/jgyselov/dynamic-cim/internal/store"
	"github.com/jgyselov/dynamic-cim/internal/util/labels"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

const namespace = "lab"

func details() values.Details {
	return values.Details{
		Name:                 "edge-01",
		BaseDNSDomain:        "example.com",
		OpenshiftVersion:     "img4.14.0",
		PullSecret:           `{"auths":{"quay.io":{"auth":"dXNlcjpwYXNz"}}}`,
		HighAvailabilityMode: values.HighAvailabilityNone,
	}
}

func networking() values.Networking {
	return values.Networking{
		SSHPublicKey:             "ssh-ed25519 AAAA admin@lab",
		ClusterNetworkCIDR:       "10.128.0.0/14",
		ClusterNetworkHostPrefix: 23,
		ServiceNetworkCIDR:       "172.30.0.0/16",
		HostSubnet:               "192.168.111.0/24 (192.168.111.0 - 192.168.111.255)",
		APIVIP:                   "192.168.111.5",
		IngressVIP:               "192.168.111.4",
	}
}

func newLinker(m *store.Memory) *Linker {
	return New(Config{Namespace: namespace, Store: m, Concurrency: 2})
}

func createCluster(t *testing.T, m *store.Memory) (*Linker, *v1beta1.ClusterDeployment, *v1beta1.AgentClusterInstall) {
	t.Helper()
	ctx := context.Background()
	l := newLinker(m)

	name, err := l.Create(ctx, details())
	require.NoError(t, err)
	cd, err := l.ClusterDeployment(ctx, name)
	require.NoError(t, err)
	aci, err := l.AgentClusterInstall(ctx, cd)
	require.NoError(t, err)
	return l, cd, aci
}

func createdKinds(m *store.Memory) []v1beta1.Kind {
	var kinds []v1beta1.Kind
	for _, c := range m.Calls() {
		if c.Verb == store.VerbCreate {
			kinds = append(kinds, c.Kind)
		}
	}
	return kinds
}

func forbidden(kind v1beta1.Kind) store.Reactor {
	return func(call store.Call) error {
		if call.Verb == store.VerbCreate && call.Kind == kind {
			gvr, _ := kind.Resource()
			return apierrors.NewForbidden(gvr.GroupResource(), call.Name, errors.New("not allowed"))
		}
		return nil
	}
}

func TestCreate_Order(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	_, cd, aci := createCluster(t, m)

	assert.Equal(t, []v1beta1.Kind{
		v1beta1.KindSecret,
		v1beta1.KindClusterDeployment,
		v1beta1.KindAgentClusterInstall,
	}, createdKinds(m))

	assert.Equal(t, "edge-01", cd.Name)
	require.NotNil(t, cd.Spec.PullSecretRef)
	assert.Equal(t, "edge-01-pull-secret", cd.Spec.PullSecretRef.Name)
	assert.Equal(t, "edge-01", aci.Spec.ClusterDeploymentRef.Name)
	require.NotNil(t, aci.Spec.ImageSetRef)
	assert.Equal(t, "img4.14.0", aci.Spec.ImageSetRef.Name)
	assert.Equal(t, 1, aci.Spec.ProvisionRequirements.ControlPlaneAgents)
}

func TestCreate_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		failing  v1beta1.Kind
		created  []v1beta1.Kind
		wantName string
	}{
		{
			name:    "pull secret",
			failing: v1beta1.KindSecret,
			created: []v1beta1.Kind{v1beta1.KindSecret},
		},
		{
			name:    "cluster deployment",
			failing: v1beta1.KindClusterDeployment,
			created: []v1beta1.Kind{v1beta1.KindSecret, v1beta1.KindClusterDeployment},
		},
		{
			name:     "agent cluster install",
			failing:  v1beta1.KindAgentClusterInstall,
			created:  []v1beta1.Kind{v1beta1.KindSecret, v1beta1.KindClusterDeployment, v1beta1.KindAgentClusterInstall},
			wantName: "edge-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := store.NewMemory()
			m.AddReactor(forbidden(tt.failing))

			name, err := newLinker(m).Create(context.Background(), details())
			require.Error(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.created, createdKinds(m))

			var lerr *Error
			require.ErrorAs(t, err, &lerr)
			assert.Equal(t, CreationFailure, lerr.Kind)
			assert.Equal(t, tt.failing, lerr.Record)
			assert.Contains(t, err.Error(), string(tt.failing))
			assert.True(t, apierrors.IsForbidden(err))
		})
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	_, _, _ = createCluster(t, m)

	_, err := newLinker(m).Create(context.Background(), details())
	require.Error(t, err)
	assert.True(t, apierrors.IsAlreadyExists(err))
	assert.Equal(t, "failed to create ClusterDeployment edge-01: "+errors.Unwrap(err).Error(), err.Error())

	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, v1beta1.KindClusterDeployment, lerr.Record, "the existing pull secret is reused")
}

func TestCreate_ResumesAfterClusterFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	failed := false
	m.AddReactor(func(call store.Call) error {
		if failed || call.Verb != store.VerbCreate || call.Kind != v1beta1.KindClusterDeployment {
			return nil
		}
		failed = true
		return apierrors.NewTimeoutError("request timed out", 1)
	})
	l := newLinker(m)

	_, err := l.Create(ctx, details())
	require.Error(t, err)

	name, err := l.Create(ctx, details())
	require.NoError(t, err)
	assert.Equal(t, "edge-01", name)
	assert.Equal(t, []v1beta1.Kind{
		v1beta1.KindSecret,
		v1beta1.KindClusterDeployment,
		v1beta1.KindSecret,
		v1beta1.KindClusterDeployment,
		v1beta1.KindAgentClusterInstall,
	}, createdKinds(m))

	cd, err := l.ClusterDeployment(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, cd.Spec.PullSecretRef)
	assert.Equal(t, "edge-01-pull-secret", cd.Spec.PullSecretRef.Name)
}

func TestCreateInstall(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	m.AddReactor(forbidden(v1beta1.KindAgentClusterInstall))
	l := newLinker(m)

	name, err := l.Create(ctx, details())
	require.Error(t, err)
	cd, err := l.ClusterDeployment(ctx, name)
	require.NoError(t, err)
	_, err = l.AgentClusterInstall(ctx, cd)
	require.True(t, apierrors.IsNotFound(err))

	healthy := store.NewMemory()
	for _, kind := range []v1beta1.Kind{v1beta1.KindSecret, v1beta1.KindClusterDeployment} {
		items, err := m.List(ctx, kind, namespace, nil)
		require.NoError(t, err)
		for i := range items {
			healthy.Seed(kind, &items[i])
		}
	}
	l = newLinker(healthy)

	require.NoError(t, l.CreateInstall(ctx, cd, details()))
	aci, err := l.AgentClusterInstall(ctx, cd)
	require.NoError(t, err)
	assert.Equal(t, "edge-01", aci.Spec.ClusterDeploymentRef.Name)
	require.NotNil(t, aci.Spec.ImageSetRef)
	assert.Equal(t, "img4.14.0", aci.Spec.ImageSetRef.Name)
	assert.Equal(t, []v1beta1.Kind{v1beta1.KindAgentClusterInstall}, createdKinds(healthy))
}

func TestDetailsOps(t *testing.T) {
	t.Parallel()

	aci := &v1beta1.AgentClusterInstall{Spec: v1beta1.AgentClusterInstallSpec{
		ImageSetRef: &v1beta1.ClusterImageSetRef{Name: "img4.14.0"},
	}}

	assert.True(t, DetailsOps(aci, details()).Empty())

	changed := details()
	changed.OpenshiftVersion = "img4.15.0"
	changed.Name = "renamed"
	changed.BaseDNSDomain = "other.com"
	changed.PullSecret = "{}"
	changed.HighAvailabilityMode = values.HighAvailabilityFull

	ops := DetailsOps(aci, changed)
	assert.Equal(t, patch.Ops{{Op: patch.OpReplace, Path: PathImageSetName, Value: "img4.15.0"}}, ops)
}

func TestDetailsOps_MissingImageSetRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		version string
		want    patch.Ops
	}{
		{
			name:    "whole reference is added",
			version: "img4.14.0",
			want: patch.Ops{{
				Op:    patch.OpAdd,
				Path:  PathImageSetRef,
				Value: v1beta1.ClusterImageSetRef{Name: "img4.14.0"},
			}},
		},
		{
			name:    "empty version adds nothing",
			version: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			v := details()
			v.OpenshiftVersion = tt.version
			ops := DetailsOps(&v1beta1.AgentClusterInstall{}, v)
			if tt.want == nil {
				assert.True(t, ops.Empty())
				return
			}
			assert.Equal(t, tt.want, ops)
		})
	}
}

func TestDetailsOps_MissingImageSetRefApplies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	l, _, aci := createCluster(t, m)

	u, err := m.Get(ctx, v1beta1.KindAgentClusterInstall, namespace, aci.Name)
	require.NoError(t, err)
	unstructured.RemoveNestedField(u.Object, "spec", "imageSetRef")
	m.Seed(v1beta1.KindAgentClusterInstall, u)

	cd, err := l.ClusterDeployment(ctx, "edge-01")
	require.NoError(t, err)
	aci, err = l.AgentClusterInstall(ctx, cd)
	require.NoError(t, err)
	require.Nil(t, aci.Spec.ImageSetRef)

	require.NoError(t, l.UpdateDetails(ctx, aci, details()))
	aci, err = l.AgentClusterInstall(ctx, cd)
	require.NoError(t, err)
	require.NotNil(t, aci.Spec.ImageSetRef)
	assert.Equal(t, "img4.14.0", aci.Spec.ImageSetRef.Name)
}

func TestNetworkingOps(t *testing.T) {
	t.Parallel()

	allowed := map[string]bool{
		PathSSHPublicKey: true, PathClusterNetwork: true, PathServiceNetwork: true,
		PathMachineNetwork: true, PathAPIVIP: true, PathIngressVIP: true,
	}

	tests := []struct {
		name  string
		dhcp  bool
		paths []string
	}{
		{
			name:  "static VIPs omit machine network",
			dhcp:  false,
			paths: []string{PathSSHPublicKey, PathAPIVIP, PathIngressVIP},
		},
		{
			name:  "DHCP VIPs set machine network",
			dhcp:  true,
			paths: []string{PathSSHPublicKey, PathMachineNetwork, PathAPIVIP, PathIngressVIP},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := store.NewMemory()
			_, _, aci := createCluster(t, m)

			v := networking()
			v.VIPDHCPAllocation = tt.dhcp
			ops := NetworkingOps(aci, v)

			assert.Equal(t, tt.paths, ops.Paths())
			for _, op := range ops {
				assert.True(t, allowed[op.Path], "unexpected path %s", op.Path)
				assert.Equal(t, patch.OpAdd, op.Op)
			}
		})
	}
}

func TestNetworkingOps_ChangedNetworksAreReplaced(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	_, _, aci := createCluster(t, m)

	v := networking()
	v.ClusterNetworkCIDR = "10.132.0.0/14"
	v.ServiceNetworkCIDR = "172.31.0.0/16"

	byPath := map[string]patch.Operation{}
	for _, op := range NetworkingOps(aci, v) {
		byPath[op.Path] = op
	}
	assert.Equal(t, patch.OpReplace, byPath[PathClusterNetwork].Op)
	assert.Equal(t, []v1beta1.ClusterNetworkEntry{{CIDR: "10.132.0.0/14", HostPrefix: 23}}, byPath[PathClusterNetwork].Value)
	assert.Equal(t, patch.OpReplace, byPath[PathServiceNetwork].Op)
	assert.Equal(t, []string{"172.31.0.0/16"}, byPath[PathServiceNetwork].Value)
}

func TestNetworkingOps_ClearsMachineNetworkWithoutSubnet(t *testing.T) {
	t.Parallel()

	aci := &v1beta1.AgentClusterInstall{Spec: v1beta1.AgentClusterInstallSpec{
		Networking: v1beta1.Networking{
			MachineNetwork: []v1beta1.MachineNetworkEntry{{CIDR: "10.0.0.0/24"}},
		},
	}}
	v := networking()
	v.VIPDHCPAllocation = true
	v.HostSubnet = ""

	for _, op := range NetworkingOps(aci, v) {
		if op.Path == PathMachineNetwork {
			assert.Equal(t, patch.OpReplace, op.Op)
			assert.Equal(t, []v1beta1.MachineNetworkEntry{}, op.Value)
			return
		}
	}
	t.Fatal("machine network was not patched")
}

func TestUpdateNetworking_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	l, cd, aci := createCluster(t, m)

	v := networking()
	v.VIPDHCPAllocation = true
	require.NoError(t, l.UpdateNetworking(ctx, aci, v))

	aci, err := l.AgentClusterInstall(ctx, cd)
	require.NoError(t, err)
	assert.Equal(t, "192.168.111.5", aci.Spec.APIVIP)
	assert.Equal(t, []v1beta1.MachineNetworkEntry{{CIDR: "192.168.111.0/24"}}, aci.Spec.Networking.MachineNetwork)
	assert.True(t, NetworkingOps(aci, v).Empty())

	before := len(m.Calls())
	require.NoError(t, l.UpdateNetworking(ctx, aci, v))
	assert.Len(t, m.Calls(), before, "no patch is issued when nothing changed")
}

func TestUpdateDetails_PatchFailure(t *testing.T) {
	t.Parallel()

	m := store.NewMemory()
	l, _, aci := createCluster(t, m)
	m.AddReactor(func(call store.Call) error {
		if call.Verb == store.VerbPatch {
			return apierrors.NewConflict(schema.GroupResource{Resource: "agentclusterinstalls"}, call.Name, errors.New("stale"))
		}
		return nil
	})

	v := details()
	v.OpenshiftVersion = "img4.15.0"
	err := l.UpdateDetails(context.Background(), aci, v)

	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, PatchFailure, lerr.Kind)
	assert.Equal(t, v1beta1.KindAgentClusterInstall, lerr.Record)
	assert.True(t, apierrors.IsConflict(err))
}

func seedAgent(t *testing.T, m *store.Memory, name string, lbls map[string]string) {
	t.Helper()
	agent := v1beta1.Agent{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			UID:       types.UID("uid-" + name),
			Labels:    lbls,
		},
		Spec: v1beta1.AgentSpec{Hostname: name},
	}
	u, err := v1beta1.ToUnstructured(v1beta1.KindAgent, &agent)
	require.NoError(t, err)
	m.Seed(v1beta1.KindAgent, u)
}

func TestUpdateHostsSelection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	l, cd, _ := createCluster(t, m)
	seedAgent(t, m, "host-a", map[string]string{labels.KeyLocation: "rack1"})
	seedAgent(t, m, "host-b", nil)

	agents, err := l.Agents(ctx, cd)
	require.NoError(t, err)
	require.Len(t, agents, 2)

	sel := values.HostsSelection{
		SelectedHostIDs: []string{"uid-host-a", "uid-host-b"},
		Locations:       []string{"rack1"},
	}
	require.NoError(t, l.UpdateHostsSelection(ctx, cd, agents, sel))

	agents, err = l.Agents(ctx, cd)
	require.NoError(t, err)
	for _, a := range agents {
		v, ok := labels.ReservedBy(a.Labels)
		assert.True(t, ok)
		assert.Equal(t, reservation.ReservedValue(types.NamespacedName{Namespace: namespace, Name: "edge-01"}), v)
		require.NotNil(t, a.Spec.ClusterDeploymentName)
		assert.Equal(t, "edge-01", a.Spec.ClusterDeploymentName.Name)
	}

	cd, err = l.ClusterDeployment(ctx, "edge-01")
	require.NoError(t, err)
	assert.Equal(t, `["rack1"]`, cd.Annotations[labels.AnnotationSelectorLocations])
	assert.Equal(t, "false", cd.Annotations[labels.AnnotationAutoSelectHosts])

	before := len(m.Calls())
	require.NoError(t, l.UpdateHostsSelection(ctx, cd, agents, sel))
	assert.Len(t, m.Calls(), before, "repeating the selection issues no patches")
}

func TestUpdateHostsSelection_PartialFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	l, cd, _ := createCluster(t, m)
	seedAgent(t, m, "host-a", nil)
	seedAgent(t, m, "host-b", nil)
	m.AddReactor(func(call store.Call) error {
		if call.Kind == v1beta1.KindAgent && call.Name == "host-b" {
			return errors.New("admission webhook denied the request")
		}
		return nil
	})

	agents, err := l.Agents(ctx, cd)
	require.NoError(t, err)

	err = l.UpdateHostsSelection(ctx, cd, agents, values.HostsSelection{
		SelectedHostIDs: []string{"uid-host-a", "uid-host-b"},
	})

	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, PartialReservationFailure, lerr.Kind)
	require.Len(t, lerr.Hosts, 1)
	assert.Equal(t, "host-b", lerr.Hosts[0].Agent)
	assert.Contains(t, err.Error(), "host-b (reserve)")

	cd, err = l.ClusterDeployment(ctx, "edge-01")
	require.NoError(t, err)
	assert.Equal(t, "false", cd.Annotations[labels.AnnotationAutoSelectHosts], "selection is recorded despite host failures")
}

func TestAgents_UsesPlatformSelector(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	l, cd, _ := createCluster(t, m)
	seedAgent(t, m, "host-a", map[string]string{labels.KeyLocation: "rack1"})
	seedAgent(t, m, "host-b", map[string]string{labels.KeyLocation: "rack2"})

	cd.Spec.Platform.AgentBareMetal.AgentSelector = metav1.LabelSelector{
		MatchLabels: map[string]string{labels.KeyLocation: "rack2"},
	}
	agents, err := l.Agents(ctx, cd)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, "host-b", agents[0].Name)
}

func TestAgents_IncludesReservedOutsideSelector(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	l, cd, _ := createCluster(t, m)
	seedAgent(t, m, "host-a", map[string]string{labels.KeyLocation: "rack1"})
	seedAgent(t, m, "host-b", map[string]string{labels.KeyLocation: "rack2"})

	agents, err := l.Agents(ctx, cd)
	require.NoError(t, err)
	require.NoError(t, l.UpdateHostsSelection(ctx, cd, agents, values.HostsSelection{
		SelectedHostIDs: []string{"uid-host-a"},
		Locations:       []string{"rack1"},
	}))

	cd, err = l.ClusterDeployment(ctx, "edge-01")
	require.NoError(t, err)
	cd.Spec.Platform.AgentBareMetal.AgentSelector = metav1.LabelSelector{
		MatchLabels: map[string]string{labels.KeyLocation: "rack2"},
	}
	agents, err = l.Agents(ctx, cd)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, "host-a", agents[0].Name, "a reserved host stays visible after the selector moves")
	assert.Equal(t, "host-b", agents[1].Name)

	require.NoError(t, l.UpdateHostsSelection(ctx, cd, agents, values.HostsSelection{
		SelectedHostIDs: []string{"uid-host-b"},
		Locations:       []string{"rack2"},
	}))

	hostA, err := m.Get(ctx, v1beta1.KindAgent, namespace, "host-a")
	require.NoError(t, err)
	_, reserved := labels.ReservedBy(hostA.GetLabels())
	assert.False(t, reserved, "the deselected host is released")

	hostB, err := m.Get(ctx, v1beta1.KindAgent, namespace, "host-b")
	require.NoError(t, err)
	_, reserved = labels.ReservedBy(hostB.GetLabels())
	assert.True(t, reserved)
}

func TestMergeByUID(t *testing.T) {
	t.Parallel()

	item := func(name string) unstructured.Unstructured {
		u := unstructured.Unstructured{}
		u.SetName(name)
		u.SetUID(types.UID("uid-" + name))
		return u
	}

	merged := mergeByUID(
		[]unstructured.Unstructured{item("host-c"), item("host-a")},
		[]unstructured.Unstructured{item("host-a"), item("host-b")},
	)
	names := make([]string, 0, len(merged))
	for _, u := range merged {
		names = append(names, u.GetName())
	}
	assert.Equal(t, []string{"host-a", "host-b", "host-c"}, names)
}

func TestUsedClusterNamesAndImageSets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m := store.NewMemory()
	l, _, _ := createCluster(t, m)
	for _, name := range []string{"img4.13.0", "img4.15.1", "img4.14.2"} {
		set := v1beta1.ClusterImageSet{
			ObjectMeta: metav1.ObjectMeta{Name: name},
			Spec:       v1beta1.ClusterImageSetSpec{ReleaseImage: "quay.io/openshift-release-dev/ocp-release:" + name},
		}
		u, err := v1beta1.ToUnstructured(v1beta1.KindClusterImageSet, &set)
		require.NoError(t, err)
		m.Seed(v1beta1.KindClusterImageSet, u)
	}

	used, err := l.UsedClusterNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"edge-01.example.com"}, used)

	sets, err := l.ImageSets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"img4.15.1", "img4.14.2", "img4.13.0"}, sets)
}
