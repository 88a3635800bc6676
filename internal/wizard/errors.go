package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errClusterNameRequired = errors.New("cluster name is required")
	errClusterNameInvalid  = errors.New("cluster name must be 1-54 lowercase alphanumeric characters or hyphens, starting and ending with alphanumeric")
	errClusterNameUsed     = errors.New("a cluster with this name and base domain already exists")
	errBaseDomainRequired  = errors.New("base domain is required")
	errPullSecretRequired  = errors.New("pull secret is required")
	errPullSecretInvalid   = errors.New("pull secret must be a JSON document")
	errCIDRRequired        = errors.New("CIDR is required")
	errCIDRInvalid         = errors.New("invalid CIDR format (expected: x.x.x.x/xx)")
	errIPInvalid           = errors.New("invalid IP address")
	errHostPrefixInvalid   = errors.New("host prefix must be a number between 1 and 128")
	errLabelInvalid        = errors.New("labels must be key=value pairs")
)
