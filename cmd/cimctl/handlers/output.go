package handlers

import (
	"context"
	"fmt"

	"sigs.k8s.io/yaml"
)

// Output formats.
const (
	OutputText = ""
	OutputYAML = "yaml"
)

// printRecords prints the linked ClusterDeployment and AgentClusterInstall
// as YAML when requested.
func (s *session) printRecords(ctx context.Context) error {
	if s.output != OutputYAML || s.controller.ClusterName() == "" {
		return nil
	}
	cd, err := s.linker.ClusterDeployment(ctx, s.controller.ClusterName())
	if err != nil {
		return err
	}
	aci, err := s.linker.AgentClusterInstall(ctx, cd)
	if err != nil {
		return err
	}
	for _, obj := range []any{cd, aci} {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		fmt.Fprintf(s.out, "---\n%s", data)
	}
	return nil
}
