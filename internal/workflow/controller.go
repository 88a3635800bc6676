package workflow

import (
	"context"
	"errors"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/util/naming"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// State is the link state of a Controller.
type State int

const (
	// StateUninitialized means no ClusterDeployment is known yet.
	StateUninitialized State = iota
	// StateLinked means the controller works on an existing ClusterDeployment.
	StateLinked
)

func (s State) String() string {
	if s == StateLinked {
		return "linked"
	}
	return "uninitialized"
}

// Step names used in error messages.
const (
	StepDetails        = "details"
	StepNetworking     = "networking"
	StepHostsSelection = "hosts selection"
)

// ErrNotLinked is returned by update steps issued before the cluster exists.
var ErrNotLinked = errors.New("the cluster has not been created yet, save the details step first")

// Linker creates and patches the records of a cluster.
type Linker interface {
	Namespace() string
	Create(ctx context.Context, v values.Details) (string, error)
	CreateInstall(ctx context.Context, cd *v1beta1.ClusterDeployment, v values.Details) error
	ClusterDeployment(ctx context.Context, name string) (*v1beta1.ClusterDeployment, error)
	AgentClusterInstall(ctx context.Context, cd *v1beta1.ClusterDeployment) (*v1beta1.AgentClusterInstall, error)
	Agents(ctx context.Context, cd *v1beta1.ClusterDeployment) ([]v1beta1.Agent, error)
	UpdateDetails(ctx context.Context, aci *v1beta1.AgentClusterInstall, v values.Details) error
	UpdateNetworking(ctx context.Context, aci *v1beta1.AgentClusterInstall, v values.Networking) error
	UpdateHostsSelection(ctx context.Context, cd *v1beta1.ClusterDeployment, agents []v1beta1.Agent, v values.HostsSelection) error
}

// Navigator receives the console path to show once the wizard is closed.
type Navigator func(path string)

// Config holds the dependencies of a Controller.
type Config struct {
	Linker Linker
	// ClusterName links the controller to an existing ClusterDeployment.
	// Empty starts a new cluster.
	ClusterName string
	Navigate    Navigator
}

// Controller runs the wizard steps of one cluster.
type Controller struct {
	linker   Linker
	cluster  string
	navigate Navigator
}

// New creates a Controller.
func New(cfg Config) *Controller {
	navigate := cfg.Navigate
	if navigate == nil {
		navigate = func(string) {}
	}
	return &Controller{
		linker:   cfg.Linker,
		cluster:  cfg.ClusterName,
		navigate: navigate,
	}
}

// State returns the current link state.
func (c *Controller) State() State {
	if c.cluster == "" {
		return StateUninitialized
	}
	return StateLinked
}

// ClusterName returns the linked ClusterDeployment name, empty when
// uninitialized.
func (c *Controller) ClusterName() string {
	return c.cluster
}

// SaveDetails creates the cluster records when uninitialized and otherwise
// updates the mutable details of the linked cluster.
func (c *Controller) SaveDetails(ctx context.Context, v values.Details) error {
	logger := log.FromContext(ctx).WithValues("step", StepDetails, "state", c.State().String())

	if c.cluster == "" {
		name, err := c.linker.Create(ctx, v)
		if name != "" {
			c.cluster = name
			logger.Info("linked to cluster", "clusterDeployment", name)
		}
		if err != nil {
			return newStepError(StepDetails, err)
		}
		return nil
	}

	cd, err := c.linker.ClusterDeployment(ctx, c.cluster)
	if err != nil {
		return newStepError(StepDetails, err)
	}
	aci, err := c.linker.AgentClusterInstall(ctx, cd)
	if apierrors.IsNotFound(err) {
		if err := c.linker.CreateInstall(ctx, cd, v); err != nil {
			return newStepError(StepDetails, err)
		}
		logger.Info("install record was missing and has been created", "clusterDeployment", c.cluster)
		return nil
	}
	if err != nil {
		return newStepError(StepDetails, err)
	}
	if err := c.linker.UpdateDetails(ctx, aci, v); err != nil {
		return newStepError(StepDetails, err)
	}
	logger.V(1).Info("details saved")
	return nil
}

// SaveNetworking updates the networking settings of the linked cluster.
func (c *Controller) SaveNetworking(ctx context.Context, v values.Networking) error {
	if c.cluster == "" {
		return newStepError(StepNetworking, ErrNotLinked)
	}
	_, aci, err := c.observe(ctx)
	if err != nil {
		return newStepError(StepNetworking, err)
	}
	if err := c.linker.UpdateNetworking(ctx, aci, v); err != nil {
		return newStepError(StepNetworking, err)
	}
	log.FromContext(ctx).V(1).Info("networking saved", "clusterDeployment", c.cluster)
	return nil
}

// SaveHostsSelection reserves the selected agents for the linked cluster.
func (c *Controller) SaveHostsSelection(ctx context.Context, v values.HostsSelection) error {
	if c.cluster == "" {
		return newStepError(StepHostsSelection, ErrNotLinked)
	}
	cd, err := c.linker.ClusterDeployment(ctx, c.cluster)
	if err != nil {
		return newStepError(StepHostsSelection, err)
	}
	agents, err := c.linker.Agents(ctx, cd)
	if err != nil {
		return newStepError(StepHostsSelection, err)
	}
	if err := c.linker.UpdateHostsSelection(ctx, cd, agents, v); err != nil {
		return newStepError(StepHostsSelection, err)
	}
	log.FromContext(ctx).V(1).Info("hosts selection saved", "clusterDeployment", c.cluster, "hosts", len(v.HostIDs()))
	return nil
}

// Close hands the console path of the cluster to the navigator and returns
// it. It does not touch any record.
func (c *Controller) Close() string {
	path := naming.ConsolePath(c.linker.Namespace(), c.cluster)
	c.navigate(path)
	return path
}

// observe re-reads the linked ClusterDeployment and its AgentClusterInstall
// so patches are computed against the current state.
func (c *Controller) observe(ctx context.Context) (*v1beta1.ClusterDeployment, *v1beta1.AgentClusterInstall, error) {
	cd, err := c.linker.ClusterDeployment(ctx, c.cluster)
	if err != nil {
		return nil, nil, err
	}
	aci, err := c.linker.AgentClusterInstall(ctx, cd)
	if err != nil {
		return nil, nil, err
	}
	return cd, aci, nil
}
