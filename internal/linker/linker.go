package linker

import (
	"context"
	"errors"
	"fmt"
	"sort"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	k8slabels "k8s.io/apimachinery/pkg/labels"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/manifests"
	"github.com/jgyselov/dynamic-cim/internal/patch"
	"github.com/jgyselov/dynamic-cim/internal/reservation"
	"github.com/jgyselov/dynamic-cim/internal/store"
	"github.com/jgyselov/dynamic-cim/internal/util/labels"
	"github.com/jgyselov/dynamic-cim/internal/util/naming"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// Patch paths on AgentClusterInstall and ClusterDeployment records.
const (
	PathImageSetRef    = "/spec/imageSetRef"
	PathImageSetName   = "/spec/imageSetRef/name"
	PathSSHPublicKey   = "/spec/sshPublicKey"
	PathClusterNetwork = "/spec/networking/clusterNetwork"
	PathServiceNetwork = "/spec/networking/serviceNetwork"
	PathMachineNetwork = "/spec/networking/machineNetwork"
	PathAPIVIP         = "/spec/apiVIP"
	PathIngressVIP     = "/spec/ingressVIP"
	PathAnnotations    = "/metadata/annotations"
)

// Config holds the dependencies of a Linker.
type Config struct {
	// Namespace all records of the cluster live in.
	Namespace string
	Store     store.Store
	// Concurrency bounds the agent patches issued at once; zero is unbounded.
	Concurrency int
}

// Linker creates and patches the records of clusters in one namespace.
type Linker struct {
	namespace   string
	store       store.Store
	concurrency int
}

// New creates a Linker.
func New(cfg Config) *Linker {
	return &Linker{
		namespace:   cfg.Namespace,
		store:       cfg.Store,
		concurrency: cfg.Concurrency,
	}
}

// Namespace returns the namespace the linker operates in.
func (l *Linker) Namespace() string {
	return l.namespace
}

// Create creates the pull secret, the ClusterDeployment and the
// AgentClusterInstall of a new cluster, in that order, stopping at the
// first failure.
//
// The returned name is set as soon as the ClusterDeployment exists, also
// when the AgentClusterInstall could not be created afterwards.
func (l *Linker) Create(ctx context.Context, v values.Details) (string, error) {
	logger := log.FromContext(ctx).WithValues("namespace", l.namespace, "cluster", v.Name)

	secret, err := manifests.PullSecretObject(l.namespace, v.Name, v.PullSecret)
	if err != nil {
		return "", creationError(v1beta1.KindSecret, naming.PullSecret(v.Name), err)
	}
	createdSecret, err := l.create(ctx, v1beta1.KindSecret, secret)
	if apierrors.IsAlreadyExists(err) && secret.GetName() == naming.PullSecret(v.Name) {
		// Left behind by an earlier attempt that failed at the ClusterDeployment.
		logger.Info("reusing existing pull secret", "secret", secret.GetName())
		createdSecret, err = l.store.Get(ctx, v1beta1.KindSecret, l.namespace, secret.GetName())
		if err != nil {
			return "", creationError(v1beta1.KindSecret, secret.GetName(), err)
		}
	}
	if err != nil {
		return "", err
	}

	cd, err := manifests.ClusterDeploymentObject(manifests.ClusterDeploymentParams{
		Namespace:      l.namespace,
		PullSecretName: createdSecret.GetName(),
		Details:        v,
	})
	if err != nil {
		return "", creationError(v1beta1.KindClusterDeployment, v.Name, err)
	}
	createdCD, err := l.create(ctx, v1beta1.KindClusterDeployment, cd)
	if err != nil {
		return "", err
	}
	name := createdCD.GetName()

	if err := l.createInstall(ctx, name, v); err != nil {
		return name, err
	}

	logger.Info("cluster records created", "clusterDeployment", name)
	return name, nil
}

// CreateInstall creates the AgentClusterInstall of an existing
// ClusterDeployment whose install record is missing, completing a Create
// that failed at its last step.
func (l *Linker) CreateInstall(ctx context.Context, cd *v1beta1.ClusterDeployment, v values.Details) error {
	if err := l.createInstall(ctx, cd.Name, v); err != nil {
		return err
	}
	log.FromContext(ctx).Info("install record created", "namespace", l.namespace, "clusterDeployment", cd.Name)
	return nil
}

func (l *Linker) createInstall(ctx context.Context, cluster string, v values.Details) error {
	aci, err := manifests.AgentClusterInstallObject(manifests.AgentClusterInstallParams{
		Namespace:                l.namespace,
		ClusterDeploymentRefName: cluster,
		ImageSetName:             v.OpenshiftVersion,
		HighAvailabilityMode:     v.HighAvailabilityMode,
	})
	if err != nil {
		return creationError(v1beta1.KindAgentClusterInstall, naming.AgentClusterInstall(cluster), err)
	}
	_, err = l.create(ctx, v1beta1.KindAgentClusterInstall, aci)
	return err
}

func (l *Linker) create(ctx context.Context, kind v1beta1.Kind, obj *unstructured.Unstructured) (*unstructured.Unstructured, error) {
	logger := log.FromContext(ctx)
	logger.V(1).Info("creating record", "kind", kind, "name", obj.GetName())

	created, err := l.store.Create(ctx, kind, obj)
	if err != nil {
		logger.Info("record creation failed", "kind", kind, "name", obj.GetName(), "error", err.Error())
		return nil, creationError(kind, obj.GetName(), err)
	}
	return created, nil
}

// DetailsOps computes the AgentClusterInstall patch of the details step.
// Only the image set reference is mutable after creation. A record without
// an image set reference gets the whole reference added.
func DetailsOps(aci *v1beta1.AgentClusterInstall, v values.Details) patch.Ops {
	var ops patch.Ops
	if aci.Spec.ImageSetRef == nil {
		if v.OpenshiftVersion != "" {
			patch.Append(&ops, PathImageSetRef, v1beta1.ClusterImageSetRef{Name: v.OpenshiftVersion}, nil)
		}
		return ops
	}
	patch.Append(&ops, PathImageSetName, v.OpenshiftVersion, aci.Spec.ImageSetRef.Name)
	return ops
}

// NetworkingOps computes the AgentClusterInstall patch of the networking
// step. The machine network is only managed when VIPs are allocated by
// DHCP; otherwise it is left untouched.
func NetworkingOps(aci *v1beta1.AgentClusterInstall, v values.Networking) patch.Ops {
	observed := aci.Spec
	var ops patch.Ops

	patch.Append(&ops, PathSSHPublicKey, v.SSHPublicKey, observed.SSHPublicKey)
	patch.Append(&ops, PathClusterNetwork,
		[]v1beta1.ClusterNetworkEntry{{CIDR: v.ClusterNetworkCIDR, HostPrefix: v.ClusterNetworkHostPrefix}},
		observed.Networking.ClusterNetwork)
	patch.Append(&ops, PathServiceNetwork, []string{v.ServiceNetworkCIDR}, observed.Networking.ServiceNetwork)

	if v.VIPDHCPAllocation {
		machineNetwork := []v1beta1.MachineNetworkEntry{}
		if cidr := v.HostSubnetCIDR(); cidr != "" {
			machineNetwork = append(machineNetwork, v1beta1.MachineNetworkEntry{CIDR: cidr})
		}
		patch.Append(&ops, PathMachineNetwork, machineNetwork, observed.Networking.MachineNetwork)
	}

	patch.Append(&ops, PathAPIVIP, v.APIVIP, observed.APIVIP)
	patch.Append(&ops, PathIngressVIP, v.IngressVIP, observed.IngressVIP)
	return ops
}

// SelectionOps computes the ClusterDeployment annotation patch persisting
// the host selection criteria.
func SelectionOps(cd *v1beta1.ClusterDeployment, v values.HostsSelection) patch.Ops {
	var ops patch.Ops
	patch.Append(&ops, PathAnnotations, manifests.HostSelectionAnnotations(cd.Annotations, v), cd.Annotations)
	return ops
}

// UpdateDetails patches the image set of the cluster's AgentClusterInstall.
func (l *Linker) UpdateDetails(ctx context.Context, aci *v1beta1.AgentClusterInstall, v values.Details) error {
	return l.patch(ctx, v1beta1.KindAgentClusterInstall, aci, DetailsOps(aci, v))
}

// UpdateNetworking patches the networking settings of the cluster's
// AgentClusterInstall.
func (l *Linker) UpdateNetworking(ctx context.Context, aci *v1beta1.AgentClusterInstall, v values.Networking) error {
	return l.patch(ctx, v1beta1.KindAgentClusterInstall, aci, NetworkingOps(aci, v))
}

// UpdateHostsSelection reserves the selected agents for the cluster,
// releases the ones no longer selected and records the selection criteria
// on the ClusterDeployment.
//
// Failed agent patches do not stop the annotation patch. They are reported
// as a PartialReservationFailure, joined with a PatchFailure of the
// annotation patch if that failed too.
func (l *Linker) UpdateHostsSelection(ctx context.Context, cd *v1beta1.ClusterDeployment, agents []v1beta1.Agent, v values.HostsSelection) error {
	cluster := types.NamespacedName{Namespace: cd.Namespace, Name: cd.Name}
	plan := reservation.NewPlan(cluster, v.HostIDs(), agents)
	report := reservation.Apply(ctx, l.store, plan, l.concurrency)

	var errs []error
	if failed := report.Failed(); len(failed) > 0 {
		hostErrs := make([]error, 0, len(failed))
		for _, o := range failed {
			hostErrs = append(hostErrs, o.Err)
		}
		errs = append(errs, &Error{
			Kind:   PartialReservationFailure,
			Record: v1beta1.KindClusterDeployment,
			Name:   cd.Name,
			Op:     OpReserve,
			Err:    errors.Join(hostErrs...),
			Hosts:  failed,
		})
	}

	if err := l.patch(ctx, v1beta1.KindClusterDeployment, cd, SelectionOps(cd, v)); err != nil {
		errs = append(errs, err)
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}

func (l *Linker) patch(ctx context.Context, kind v1beta1.Kind, obj metaObject, ops patch.Ops) error {
	if ops.Empty() {
		return nil
	}
	logger := log.FromContext(ctx)

	current, err := v1beta1.ToUnstructured(kind, obj)
	if err != nil {
		return patchError(kind, obj.GetName(), err)
	}
	logger.V(1).Info("patching record", "kind", kind, "name", obj.GetName(), "paths", ops.Paths())
	if _, err := l.store.Patch(ctx, kind, current, ops); err != nil {
		logger.Info("record patch failed", "kind", kind, "name", obj.GetName(), "error", err.Error())
		return patchError(kind, obj.GetName(), err)
	}
	return nil
}

type metaObject interface {
	GetName() string
}

// ClusterDeployment reads a ClusterDeployment of the namespace.
func (l *Linker) ClusterDeployment(ctx context.Context, name string) (*v1beta1.ClusterDeployment, error) {
	u, err := l.store.Get(ctx, v1beta1.KindClusterDeployment, l.namespace, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", v1beta1.KindClusterDeployment, name, err)
	}
	cd := &v1beta1.ClusterDeployment{}
	if err := v1beta1.FromUnstructured(u, cd); err != nil {
		return nil, err
	}
	return cd, nil
}

// AgentClusterInstall reads the AgentClusterInstall a ClusterDeployment
// points at.
func (l *Linker) AgentClusterInstall(ctx context.Context, cd *v1beta1.ClusterDeployment) (*v1beta1.AgentClusterInstall, error) {
	name := naming.AgentClusterInstall(cd.Name)
	if ref := cd.Spec.ClusterInstallRef; ref != nil && ref.Name != "" {
		name = ref.Name
	}
	u, err := l.store.Get(ctx, v1beta1.KindAgentClusterInstall, l.namespace, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", v1beta1.KindAgentClusterInstall, name, err)
	}
	aci := &v1beta1.AgentClusterInstall{}
	if err := v1beta1.FromUnstructured(u, aci); err != nil {
		return nil, err
	}
	return aci, nil
}

// Agents lists the agents a ClusterDeployment may choose from, narrowed by
// its agent selector when one is set. Agents reserved by the cluster are
// always included, so they can be released after the selector changed.
func (l *Linker) Agents(ctx context.Context, cd *v1beta1.ClusterDeployment) ([]v1beta1.Agent, error) {
	sel, err := manifests.AgentSelector(manifests.PlatformAgentSelector(cd))
	if err != nil {
		return nil, fmt.Errorf("invalid agent selector of %s %s: %w", v1beta1.KindClusterDeployment, cd.Name, err)
	}
	items, err := l.store.List(ctx, v1beta1.KindAgent, l.namespace, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}

	if !sel.Empty() {
		value := reservation.ReservedValue(types.NamespacedName{Namespace: cd.Namespace, Name: cd.Name})
		reservedSel, err := k8slabels.Parse(labels.SelectorForReservation(value))
		if err != nil {
			return nil, fmt.Errorf("invalid reservation selector %q: %w", value, err)
		}
		reserved, err := l.store.List(ctx, v1beta1.KindAgent, l.namespace, reservedSel)
		if err != nil {
			return nil, fmt.Errorf("failed to list reserved agents: %w", err)
		}
		items = mergeByUID(items, reserved)
	}
	return v1beta1.AgentsFromList(items)
}

// mergeByUID appends the items of extra not already in items, keeping the
// result sorted by name.
func mergeByUID(items, extra []unstructured.Unstructured) []unstructured.Unstructured {
	seen := make(map[types.UID]bool, len(items))
	for i := range items {
		seen[items[i].GetUID()] = true
	}
	for i := range extra {
		if !seen[extra[i].GetUID()] {
			items = append(items, extra[i])
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].GetName() < items[j].GetName() })
	return items
}

// UsedClusterNames returns "<name>.<baseDomain>" of every ClusterDeployment
// in the namespace, sorted.
func (l *Linker) UsedClusterNames(ctx context.Context) ([]string, error) {
	items, err := l.store.List(ctx, v1beta1.KindClusterDeployment, l.namespace, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster deployments: %w", err)
	}
	names := make([]string, 0, len(items))
	for i := range items {
		var cd v1beta1.ClusterDeployment
		if err := v1beta1.FromUnstructured(&items[i], &cd); err != nil {
			return nil, err
		}
		names = append(names, naming.UsedClusterName(cd.Name, cd.Spec.BaseDomain))
	}
	sort.Strings(names)
	return names, nil
}

// ImageSets returns the names of the available ClusterImageSets, newest
// release first by name.
func (l *Linker) ImageSets(ctx context.Context) ([]string, error) {
	items, err := l.store.List(ctx, v1beta1.KindClusterImageSet, "", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list cluster image sets: %w", err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.GetName())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}
