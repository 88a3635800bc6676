// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/jgyselov/dynamic-cim/cmd/cimctl/handlers"
)

// globalOptions are bound to the persistent flags of the root command.
var globalOptions handlers.Options

// Root returns the root command for the cimctl CLI.
func Root() *cobra.Command {
	globalOptions = handlers.Options{}

	cmd := &cobra.Command{
		Use:           "cimctl",
		Short:         "Create and edit agent based clusters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger := zap.New(zap.UseDevMode(globalOptions.Debug))
			ctrl.SetLogger(logger)
			cmd.SetContext(ctrl.LoggerInto(cmd.Context(), logger))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&globalOptions.ConfigPath, "config", "c", "", "Path to configuration file (default: cimctl.yaml)")
	flags.StringVar(&globalOptions.Kubeconfig, "kubeconfig", "", "Path to the kubeconfig of the hub cluster")
	flags.StringVarP(&globalOptions.Namespace, "namespace", "n", "", "Namespace of the cluster records")
	flags.StringVar(&globalOptions.Cluster, "cluster", "", "Name of an existing ClusterDeployment to edit")
	flags.StringVarP(&globalOptions.Output, "output", "o", "", "Print the cluster records after saving (yaml)")
	flags.BoolVar(&globalOptions.DryRun, "dry-run", false,
		"Send all writes as server side dry runs (the wizard needs --cluster, a dry run never persists a new cluster)")
	flags.BoolVar(&globalOptions.Debug, "debug", false, "Enable debug logging")
	flags.StringVar(&globalOptions.MetricsFile, "metrics-file", "", "Write store request metrics in Prometheus text format to this file")

	cmd.AddCommand(Details())
	cmd.AddCommand(Networking())
	cmd.AddCommand(Hosts())
	cmd.AddCommand(Wizard())
	cmd.AddCommand(Version())

	return cmd
}
