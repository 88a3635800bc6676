package config

import "time"

// DefaultConfigFilename is the default configuration filename.
const DefaultConfigFilename = "cimctl.yaml"

// Defaults applied to unset fields.
const (
	DefaultNamespace            = "default"
	DefaultRequestTimeout       = 30 * time.Second
	DefaultMaxConcurrentPatches = 8
)

// Config is the cimctl configuration.
type Config struct {
	// Kubeconfig is the path of the kubeconfig file. Empty uses the default
	// loading rules (KUBECONFIG, then ~/.kube/config, then in-cluster).
	Kubeconfig string `yaml:"kubeconfig,omitempty"`
	// Context selects a kubeconfig context other than the current one.
	Context string `yaml:"context,omitempty"`
	// Namespace holds the records of the cluster.
	Namespace string `yaml:"namespace,omitempty" validate:"omitempty,hostname_rfc1123,max=63"`
	// RequestTimeout bounds every single store call.
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty" validate:"min=0"`
	// MaxConcurrentPatches bounds the agent patches issued at once.
	MaxConcurrentPatches int `yaml:"maxConcurrentPatches,omitempty" validate:"min=0,max=64"`
	// DryRun sends every write with server-side dry run.
	DryRun bool `yaml:"dryRun,omitempty"`
	// ConsoleURL is prefixed to the console path printed when the wizard
	// closes.
	ConsoleURL string `yaml:"consoleURL,omitempty" validate:"omitempty,url"`
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxConcurrentPatches == 0 {
		c.MaxConcurrentPatches = DefaultMaxConcurrentPatches
	}
}
