// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"k8s.io/client-go/kubernetes"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/jgyselov/dynamic-cim/internal/config"
	"github.com/jgyselov/dynamic-cim/internal/k8s"
	"github.com/jgyselov/dynamic-cim/internal/linker"
	"github.com/jgyselov/dynamic-cim/internal/store"
	"github.com/jgyselov/dynamic-cim/internal/workflow"
)

// Options are the global flags shared by all commands.
type Options struct {
	ConfigPath  string
	Kubeconfig  string
	Namespace   string
	Cluster     string
	Output      string
	DryRun      bool
	Debug       bool
	// MetricsFile receives the store request metrics of the command.
	MetricsFile string
}

// Connection is what a session needs from the hub cluster.
type Connection struct {
	Store store.Store
	Core  kubernetes.Interface
	// Namespace of the kubeconfig context, used when none is configured.
	Namespace string
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfig loads the cimctl configuration.
	loadConfig = config.Load

	// connect builds the store for the configured hub cluster.
	connect = func(cfg *config.Config) (*Connection, error) {
		clients, err := k8s.NewClients(k8s.Options{
			Kubeconfig: cfg.Kubeconfig,
			Context:    cfg.Context,
			Timeout:    cfg.RequestTimeout,
		})
		if err != nil {
			return nil, err
		}
		opts := []store.Option{store.WithRequestTimeout(cfg.RequestTimeout)}
		if cfg.DryRun {
			opts = append(opts, store.WithServerDryRun())
		}
		return &Connection{
			Store:     store.NewDynamic(clients.Dynamic, opts...),
			Core:      clients.Core,
			Namespace: clients.Namespace,
		}, nil
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

// session bundles everything a command works with.
type session struct {
	cfg         *config.Config
	conn        *Connection
	linker      *linker.Linker
	controller  *workflow.Controller
	out         io.Writer
	output      string
	metricsFile string
}

// newSession loads the configuration, applies flag overrides and connects
// to the hub cluster.
func newSession(ctx context.Context, opts Options) (*session, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Kubeconfig != "" {
		cfg.Kubeconfig = opts.Kubeconfig
	}
	if opts.DryRun {
		cfg.DryRun = true
	}

	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}

	switch {
	case opts.Namespace != "":
		cfg.Namespace = opts.Namespace
	case cfg.Namespace == config.DefaultNamespace && conn.Namespace != "":
		cfg.Namespace = conn.Namespace
	}

	l := linker.New(linker.Config{
		Namespace:   cfg.Namespace,
		Store:       conn.Store,
		Concurrency: cfg.MaxConcurrentPatches,
	})
	s := &session{
		cfg:         cfg,
		conn:        conn,
		linker:      l,
		out:         stdout,
		output:      opts.Output,
		metricsFile: opts.MetricsFile,
	}
	s.controller = workflow.New(workflow.Config{
		Linker:      l,
		ClusterName: opts.Cluster,
		Navigate: func(path string) {
			fmt.Fprintf(s.out, "Cluster: %s%s\n", cfg.ConsoleURL, path)
		},
	})

	log.FromContext(ctx).V(1).Info("session ready",
		"namespace", cfg.Namespace, "cluster", opts.Cluster, "dryRun", cfg.DryRun)
	return s, nil
}

// requireCluster fails update commands run without --cluster.
func requireCluster(opts Options) error {
	if opts.Cluster == "" {
		return fmt.Errorf("--cluster is required")
	}
	return nil
}
