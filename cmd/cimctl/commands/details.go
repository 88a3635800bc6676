package commands

import (
	"github.com/spf13/cobra"

	"github.com/jgyselov/dynamic-cim/cmd/cimctl/handlers"
)

// Details returns the command that creates a cluster or updates its details.
//
// Required flags:
//
//	--file, -f: Path to the details values file
//
// Optional flags:
//
//	--pull-secret-from: Existing Secret ("namespace/name" or "name") to copy the pull secret from
func Details() *cobra.Command {
	var (
		file          string
		pullSecretRef string
	)

	cmd := &cobra.Command{
		Use:   "details",
		Short: "Create a cluster or update its details",
		Long: `Create a cluster from a details file, or update the details of an
existing cluster.

Without --cluster a new cluster is created: a pull-secret Secret, a
ClusterDeployment and an AgentClusterInstall, in that order. With --cluster
only the OpenShift version of the existing cluster is updated.

Examples:
  # Create a cluster
  cimctl details -f details.yaml

  # Create a cluster reusing an existing pull secret
  cimctl details -f details.yaml --pull-secret-from openshift-config/pull-secret

  # Change the version of an existing cluster
  cimctl details -f details.yaml --cluster edge-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Details(cmd.Context(), globalOptions, file, pullSecretRef)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the details values file")
	cmd.Flags().StringVar(&pullSecretRef, "pull-secret-from", "", "Copy the pull secret from an existing Secret")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
