package commands

import (
	"github.com/spf13/cobra"

	"github.com/jgyselov/dynamic-cim/cmd/cimctl/handlers"
)

// Networking returns the command that updates the networking of a cluster.
func Networking() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "networking",
		Short: "Update the networking of a cluster",
		Long: `Update the SSH key, networks and VIPs of an existing cluster.

The machine network is only set when vipDhcpAllocation is enabled.

Examples:
  cimctl networking -f networking.yaml --cluster edge-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Networking(cmd.Context(), globalOptions, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the networking values file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
