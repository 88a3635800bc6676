package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/manifests"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

// Function variables for dependency injection in tests.
var (
	confirmRetry      = confirmRetryForm
	askDetails        = runDetailsGroup
	askNetworking     = runNetworkingGroup
	askHostsSelection = runHostsGroup
)

// ErrAborted is returned when the user gives up on a failed step.
var ErrAborted = errors.New("wizard aborted")

// Saver persists the values of each step.
type Saver interface {
	SaveDetails(ctx context.Context, v values.Details) error
	SaveNetworking(ctx context.Context, v values.Networking) error
	SaveHostsSelection(ctx context.Context, v values.HostsSelection) error
	Close() string
}

// Catalog provides the choices offered by the forms.
type Catalog struct {
	// ImageSets are the available versions, default first.
	ImageSets []string
	// UsedClusterNames are "<name>.<baseDomain>" of existing clusters.
	UsedClusterNames []string
	// Agents lists the hosts the cluster can choose from. It is called after
	// the details step, once the cluster exists.
	Agents func(ctx context.Context) ([]v1beta1.Agent, error)
}

// Result holds the saved values of all steps.
type Result struct {
	Details     values.Details
	Networking  values.Networking
	Hosts       values.HostsSelection
	ConsolePath string
}

// RunWizard asks and saves the details, networking and hosts steps in
// order, then closes the saver. linked tells whether the cluster already
// exists, which hides the creation-only details.
func RunWizard(ctx context.Context, catalog Catalog, saver Saver, linked bool) (*Result, error) {
	result := &Result{
		Networking: values.Networking{
			ClusterNetworkCIDR:       manifests.DefaultClusterNetworkCIDR,
			ClusterNetworkHostPrefix: manifests.DefaultClusterNetworkHostPrefix,
			ServiceNetworkCIDR:       manifests.DefaultServiceNetworkCIDR,
		},
	}

	err := runStep(ctx,
		func() error { return askDetails(ctx, catalog, linked, &result.Details) },
		func() error { return saver.SaveDetails(ctx, result.Details) })
	if err != nil {
		return nil, fmt.Errorf("details: %w", err)
	}

	err = runStep(ctx,
		func() error { return askNetworking(ctx, &result.Networking) },
		func() error { return saver.SaveNetworking(ctx, result.Networking) })
	if err != nil {
		return nil, fmt.Errorf("networking: %w", err)
	}

	var agents []v1beta1.Agent
	if catalog.Agents != nil {
		if agents, err = catalog.Agents(ctx); err != nil {
			return nil, fmt.Errorf("hosts selection: %w", err)
		}
	}
	mode := result.Details.HighAvailabilityMode
	err = runStep(ctx,
		func() error { return askHostsSelection(ctx, agents, mode, &result.Hosts) },
		func() error { return saver.SaveHostsSelection(ctx, result.Hosts) })
	if err != nil {
		return nil, fmt.Errorf("hosts selection: %w", err)
	}

	result.ConsolePath = saver.Close()
	return result, nil
}

// runStep asks a step and saves it. When saving fails the user may edit the
// values and try again.
func runStep(ctx context.Context, ask, save func() error) error {
	for {
		if err := ask(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return ErrAborted
			}
			return err
		}
		saveErr := save()
		if saveErr == nil {
			return nil
		}
		retry, err := confirmRetry(ctx, saveErr.Error())
		if err != nil {
			return err
		}
		if !retry {
			return saveErr
		}
	}
}
