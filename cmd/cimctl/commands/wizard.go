package commands

import (
	"github.com/spf13/cobra"

	"github.com/jgyselov/dynamic-cim/cmd/cimctl/handlers"
)

// Wizard returns the command that runs all steps interactively.
func Wizard() *cobra.Command {
	var opts handlers.WizardOptions

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Create or edit a cluster interactively",
		Long: `Walk through the details, networking and hosts selection steps.

Each step is saved before the next one is shown. A failed step can be
retried with different answers.

Examples:
  # Create a new cluster
  cimctl wizard

  # Edit an existing cluster and keep the answers
  cimctl wizard --cluster edge-01 --write-values ./edge-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Wizard(cmd.Context(), globalOptions, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ValuesDir, "write-values", "", "Directory to write the values of every step to")
	cmd.Flags().BoolVar(&opts.IncludeSecret, "include-secret", false, "Include the pull secret in the written values")

	return cmd
}
