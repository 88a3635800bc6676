package wizard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Filenames of the written step values.
const (
	DetailsFilename    = "details.yaml"
	NetworkingFilename = "networking.yaml"
	HostsFilename      = "hosts.yaml"
)

// WriteValues writes the values of every step into dir, one file per step,
// readable by the non-interactive commands. The pull secret is left out
// unless includeSecret is set.
func WriteValues(result *Result, dir string, includeSecret bool) ([]string, error) {
	details := result.Details
	if !includeSecret {
		details.PullSecret = ""
	}

	files := []struct {
		name    string
		command string
		value   any
	}{
		{DetailsFilename, "details", details},
		{NetworkingFilename, "networking", result.Networking},
		{HostsFilename, "hosts", result.Hosts},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := writeYAML(path, f.command, f.value); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeYAML(path, command string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(path, command))
	sb.WriteString("\n")
	sb.Write(data)

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func generateHeader(path, command string) string {
	return fmt.Sprintf(`# cimctl %s values
# Generated by: cimctl wizard
# Generated at: %s
#
# Usage:
#   cimctl %s -f %s
`, command, time.Now().Format(time.RFC3339), command, path)
}
