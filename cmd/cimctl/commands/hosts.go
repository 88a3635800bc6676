package commands

import (
	"github.com/spf13/cobra"

	"github.com/jgyselov/dynamic-cim/cmd/cimctl/handlers"
)

// Hosts returns the command that reserves hosts for a cluster.
func Hosts() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "hosts",
		Short: "Reserve hosts for a cluster",
		Long: `Reserve the selected Agents for an existing cluster.

Agents reserved by the cluster but no longer selected are released. Agents
reserved by another cluster are taken over.

Examples:
  cimctl hosts -f hosts.yaml --cluster edge-01`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Hosts(cmd.Context(), globalOptions, file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the hosts selection values file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
