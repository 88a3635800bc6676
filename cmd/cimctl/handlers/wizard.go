package handlers

import (
	"context"
	"fmt"

	"github.com/jgyselov/dynamic-cim/api/v1beta1"
	"github.com/jgyselov/dynamic-cim/internal/wizard"
)

// Function variables for dependency injection in tests.
var (
	runWizard   = wizard.RunWizard
	writeValues = wizard.WriteValues
)

// WizardOptions are the flags of the wizard command.
type WizardOptions struct {
	// ValuesDir receives the values of every step when set.
	ValuesDir     string
	IncludeSecret bool
}

// Wizard runs the interactive wizard against a new cluster, or against the
// cluster given with --cluster. A dry run needs --cluster: the records of a
// new cluster would never exist for the later steps to patch.
func Wizard(ctx context.Context, opts Options, wopts WizardOptions) (err error) {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.flushMetrics(&err)
	if s.cfg.DryRun && opts.Cluster == "" {
		return fmt.Errorf("--dry-run needs --cluster for the wizard: a dry-run ClusterDeployment is never persisted")
	}

	imageSets, err := s.linker.ImageSets(ctx)
	if err != nil {
		return err
	}
	if len(imageSets) == 0 {
		return fmt.Errorf("no ClusterImageSets available")
	}
	used, err := s.linker.UsedClusterNames(ctx)
	if err != nil {
		return err
	}

	catalog := wizard.Catalog{
		ImageSets:        imageSets,
		UsedClusterNames: used,
		Agents: func(ctx context.Context) ([]v1beta1.Agent, error) {
			cd, err := s.linker.ClusterDeployment(ctx, s.controller.ClusterName())
			if err != nil {
				return nil, err
			}
			return s.linker.Agents(ctx, cd)
		},
	}

	result, err := runWizard(ctx, catalog, s.controller, opts.Cluster != "")
	if err != nil {
		return err
	}

	if wopts.ValuesDir != "" {
		paths, err := writeValues(result, wopts.ValuesDir, wopts.IncludeSecret)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(s.out, "Wrote %s\n", p)
		}
	}
	return s.printRecords(ctx)
}
