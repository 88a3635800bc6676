package handlers

import (
	"context"
	"fmt"

	"github.com/jgyselov/dynamic-cim/internal/values"
)

// Networking applies the networking file to the cluster given with
// --cluster.
func Networking(ctx context.Context, opts Options, file string) (err error) {
	if err := requireCluster(opts); err != nil {
		return err
	}
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.flushMetrics(&err)

	var v values.Networking
	if err := values.Load(file, &v); err != nil {
		return err
	}
	if err := s.controller.SaveNetworking(ctx, v); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Updated networking of cluster %s\n", s.controller.ClusterName())
	return s.printRecords(ctx)
}
