package handlers

import (
	"context"
	"fmt"

	"github.com/jgyselov/dynamic-cim/internal/values"
)

// Hosts applies the hosts selection file to the cluster given with
// --cluster and prints the console path of the cluster.
func Hosts(ctx context.Context, opts Options, file string) (err error) {
	if err := requireCluster(opts); err != nil {
		return err
	}
	s, err := newSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.flushMetrics(&err)

	var v values.HostsSelection
	if err := values.Load(file, &v); err != nil {
		return err
	}
	if err := s.controller.SaveHostsSelection(ctx, v); err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Reserved %d host(s) for cluster %s\n", len(v.HostIDs()), s.controller.ClusterName())
	s.controller.Close()
	return s.printRecords(ctx)
}
