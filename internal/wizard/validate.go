package wizard

import (
	"encoding/json"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/jgyselov/dynamic-cim/internal/util/naming"
)

// clusterNameRegex validates cluster name format: 1-54 lowercase alphanumeric with hyphens.
var clusterNameRegex = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,52}[a-z0-9])?$`)

func validateClusterName(s string) error {
	if s == "" {
		return errClusterNameRequired
	}
	if !clusterNameRegex.MatchString(s) {
		return errClusterNameInvalid
	}
	return nil
}

// unusedClusterName rejects names whose "<name>.<baseDomain>" is taken. The
// base domain is read when the check runs so it can be entered first.
func unusedClusterName(used []string, baseDomain *string) func(string) error {
	taken := make(map[string]bool, len(used))
	for _, u := range used {
		taken[u] = true
	}
	return func(s string) error {
		if err := validateClusterName(s); err != nil {
			return err
		}
		if taken[naming.UsedClusterName(s, *baseDomain)] {
			return errClusterNameUsed
		}
		return nil
	}
}

func validateBaseDomain(s string) error {
	if strings.TrimSpace(s) == "" {
		return errBaseDomainRequired
	}
	return nil
}

func validatePullSecret(s string) error {
	if strings.TrimSpace(s) == "" {
		return errPullSecretRequired
	}
	if !json.Valid([]byte(s)) {
		return errPullSecretInvalid
	}
	return nil
}

// validateCIDR validates a CIDR notation string using net.ParseCIDR.
func validateCIDR(s string) error {
	if s == "" {
		return errCIDRRequired
	}
	if _, _, err := net.ParseCIDR(s); err != nil {
		return errCIDRInvalid
	}
	return nil
}

// validateOptionalIP accepts an empty string or an IP address.
func validateOptionalIP(s string) error {
	if s == "" {
		return nil
	}
	if net.ParseIP(s) == nil {
		return errIPInvalid
	}
	return nil
}

func validateHostPrefix(s string) error {
	_, err := parseHostPrefix(s)
	return err
}

func parseHostPrefix(s string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil || n < 1 || n > 128 {
		return 0, errHostPrefixInvalid
	}
	return int32(n), nil
}

func validateLabels(s string) error {
	for _, l := range parseList(s) {
		if k, _, ok := strings.Cut(l, "="); !ok || k == "" {
			return errLabelInvalid
		}
	}
	return nil
}

// parseList parses a comma-separated list, dropping empty entries.
func parseList(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
