// Package k8s builds the Kubernetes clients cimctl talks to the hub cluster
// with.
package k8s

import (
	"fmt"
	"time"

	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Clients bundles the clients of one hub cluster.
type Clients struct {
	// Dynamic reads and writes the cluster records.
	Dynamic dynamic.Interface
	// Core reads existing secrets.
	Core kubernetes.Interface
	// Namespace is the namespace of the selected kubeconfig context.
	Namespace string
}

// Options select the kubeconfig and context to use.
type Options struct {
	Kubeconfig string
	Context    string
	Timeout    time.Duration
}

// NewClients loads the kubeconfig following the standard loading rules and
// creates the clients.
func NewClients(opts Options) (*Clients, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	rules.ExplicitPath = opts.Kubeconfig
	overrides := &clientcmd.ConfigOverrides{CurrentContext: opts.Context}
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides)

	config, err := loader.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
	}
	namespace, _, err := loader.Namespace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve namespace: %w", err)
	}
	return newClients(config, namespace, opts.Timeout)
}

// NewClientsFromBytes creates the clients from kubeconfig bytes.
func NewClientsFromBytes(kubeconfigData []byte) (*Clients, error) {
	loader, err := clientcmd.NewClientConfigFromBytes(kubeconfigData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kubeconfig: %w", err)
	}
	config, err := loader.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build kubeconfig from bytes: %w", err)
	}
	namespace, _, err := loader.Namespace()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve namespace: %w", err)
	}
	return newClients(config, namespace, 0)
}

func newClients(config *rest.Config, namespace string, timeout time.Duration) (*Clients, error) {
	if timeout > 0 {
		config.Timeout = timeout
	}

	core, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &Clients{Dynamic: dyn, Core: core, Namespace: namespace}, nil
}
