package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables overriding file settings.
const (
	EnvKubeconfig           = "CIMCTL_KUBECONFIG"
	EnvContext              = "CIMCTL_CONTEXT"
	EnvNamespace            = "CIMCTL_NAMESPACE"
	EnvRequestTimeout       = "CIMCTL_REQUEST_TIMEOUT"
	EnvMaxConcurrentPatches = "CIMCTL_MAX_CONCURRENT_PATCHES"
	EnvDryRun               = "CIMCTL_DRY_RUN"
	EnvConsoleURL           = "CIMCTL_CONSOLE_URL"
)

// ApplyEnv overrides fields with the CIMCTL_* environment variables that are
// set. Values that fail to parse are ignored.
func (c *Config) ApplyEnv() {
	c.Kubeconfig = parseString(EnvKubeconfig, c.Kubeconfig)
	c.Context = parseString(EnvContext, c.Context)
	c.Namespace = parseString(EnvNamespace, c.Namespace)
	c.RequestTimeout = parseDuration(EnvRequestTimeout, c.RequestTimeout)
	c.MaxConcurrentPatches = parseInt(EnvMaxConcurrentPatches, c.MaxConcurrentPatches)
	c.DryRun = parseBool(EnvDryRun, c.DryRun)
	c.ConsoleURL = parseString(EnvConsoleURL, c.ConsoleURL)
}

func parseString(envVar, current string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return current
}

func parseDuration(envVar string, current time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return current
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return current
	}
	return d
}

func parseInt(envVar string, current int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return current
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return current
	}
	return i
}

func parseBool(envVar string, current bool) bool {
	val := os.Getenv(envVar)
	if val == "" {
		return current
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return current
	}
	return b
}
