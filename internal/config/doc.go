// Package config holds the cimctl configuration: how to reach the cluster,
// which namespace the wizard works in, and the limits applied to store
// calls.
//
// Settings are read from a cimctl.yaml file, then overridden by CIMCTL_*
// environment variables, then validated.
package config
