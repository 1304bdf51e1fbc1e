// Package metrics provides Prometheus metrics for deltasync.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Metrics contains all Prometheus metrics for a deltasync run.
type Metrics struct {
	registry *prometheus.Registry

	// Signature Metrics
	SignatureChunksTotal prometheus.Counter
	SignatureBytesTotal  prometheus.Counter
	SignatureDuration    prometheus.Histogram

	// Delta Metrics
	DeltaInstructionsTotal *prometheus.CounterVec
	DeltaBytesLiteral      prometheus.Counter
	DeltaBytesMatched      prometheus.Counter
	DeltaDuration          prometheus.Histogram

	// Patch Metrics
	PatchInstructionsApplied prometheus.Counter
	PatchBytesWritten        prometheus.Counter
	PatchDuration            prometheus.Histogram
}

// namespace for all deltasync metrics.
const namespace = "deltasync"

// New creates and registers all Prometheus metrics against a private
// registry, so a run never collides with process-global collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		SignatureChunksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "signature",
				Name:      "chunks_total",
				Help:      "Total number of chunks recorded in a signature.",
			},
		),
		SignatureBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "signature",
				Name:      "bytes_total",
				Help:      "Total number of bytes consumed while building a signature.",
			},
		),
		SignatureDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "signature",
				Name:      "duration_seconds",
				Help:      "Time spent building a signature.",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
		),

		DeltaInstructionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "delta",
				Name:      "instructions_total",
				Help:      "Total number of instructions emitted by type.",
			},
			[]string{"type"},
		),
		DeltaBytesLiteral: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "delta",
				Name:      "bytes_literal_total",
				Help:      "Total number of bytes emitted as literal COPY_DATA payloads.",
			},
		),
		DeltaBytesMatched: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "delta",
				Name:      "bytes_matched_total",
				Help:      "Total number of bytes covered by COPY_CHUNK instructions.",
			},
		),
		DeltaDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "delta",
				Name:      "duration_seconds",
				Help:      "Time spent synthesizing a delta.",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
		),

		PatchInstructionsApplied: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "patch",
				Name:      "instructions_applied_total",
				Help:      "Total number of instructions applied while patching.",
			},
		),
		PatchBytesWritten: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "patch",
				Name:      "bytes_written_total",
				Help:      "Total number of bytes written to the reconstructed output.",
			},
		),
		PatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "patch",
				Name:      "duration_seconds",
				Help:      "Time spent applying a delta.",
				Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30},
			},
		),
	}

	return m
}

// RecordInstruction records a single emitted instruction by its wire name
// ("copy_data" or "copy_chunk") and the number of bytes it covers.
func (m *Metrics) RecordInstruction(kind string, length uint64) {
	m.DeltaInstructionsTotal.WithLabelValues(kind).Inc()
	switch kind {
	case "copy_data":
		m.DeltaBytesLiteral.Add(float64(length))
	case "copy_chunk":
		m.DeltaBytesMatched.Add(float64(length))
	}
}

// WriteText dumps every collected metric family to w in the Prometheus
// text exposition format. deltasync has no long-running HTTP surface to
// scrape, so a run writes its metrics to a file (--metrics-file) instead
// of serving them.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("metrics: gathering families: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, family := range families {
		if err := enc.Encode(family); err != nil {
			return fmt.Errorf("metrics: encoding family %s: %w", family.GetName(), err)
		}
	}
	return nil
}
