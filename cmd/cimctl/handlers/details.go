package handlers

import (
	"context"
	"fmt"

	"github.com/jgyselov/dynamic-cim/internal/k8s"
	"github.com/jgyselov/dynamic-cim/internal/values"
)

var (
	// loadValuesFile reads step values without validating them.
	loadValuesFile = values.LoadWithoutValidation

	// pullSecretFrom reads the pull secret of an existing Secret.
	pullSecretFrom = k8s.PullSecretFrom
)

// Details creates a new cluster from the details file, or updates the
// details of the cluster given with --cluster.
//
// When pullSecretRef is set, the pull secret is copied from that existing
// Secret ("namespace/name" or "name").
func Details(ctx context.Context, opts Options, file, pullSecretRef string) (err error) {
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.flushMetrics(&err)

	var v values.Details
	if err := loadValuesFile(file, &v); err != nil {
		return err
	}
	if pullSecretRef != "" {
		if v.PullSecret, err = pullSecretFrom(ctx, s.conn.Core, pullSecretRef, s.cfg.Namespace); err != nil {
			return fmt.Errorf("failed to read pull secret: %w", err)
		}
	}
	if err := values.Validate(&v); err != nil {
		return fmt.Errorf("invalid details: %w", err)
	}

	created := s.controller.ClusterName() == ""
	if err := s.controller.SaveDetails(ctx, v); err != nil {
		return err
	}

	if created {
		fmt.Fprintf(s.out, "Created cluster %s in namespace %s\n", s.controller.ClusterName(), s.cfg.Namespace)
	} else {
		fmt.Fprintf(s.out, "Updated details of cluster %s\n", s.controller.ClusterName())
	}
	return s.printRecords(ctx)
}
