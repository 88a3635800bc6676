// Package main is the entry point for the cimctl CLI.
//
// cimctl creates and edits agent based clusters on a hub cluster. A cluster
// is made of a pull-secret Secret, a ClusterDeployment and an
// AgentClusterInstall; hosts are Agents reserved for the cluster.
//
// Commands: details, networking, hosts, wizard, version.
//
// For detailed usage information, run:
//
//	cimctl --help
package main

import (
	"fmt"
	"os"

	"github.com/jgyselov/dynamic-cim/cmd/cimctl/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
