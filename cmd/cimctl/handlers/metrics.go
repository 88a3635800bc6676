package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

// gatherer supplies the metrics written by --metrics-file.
var gatherer prometheus.Gatherer = metrics.Registry

// writeMetrics writes every gathered metric family to path in the
// Prometheus text exposition format.
func writeMetrics(path string) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("failed to encode metric %s: %w", mf.GetName(), err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}

// flushMetrics writes --metrics-file once a command is done, whether it
// succeeded or not, and joins a write failure into *err.
func (s *session) flushMetrics(err *error) {
	if s.metricsFile == "" {
		return
	}
	if werr := writeMetrics(s.metricsFile); werr != nil {
		*err = errors.Join(*err, werr)
	}
}
