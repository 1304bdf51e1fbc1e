package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/prn-tf/deltasync/internal/config"
	"github.com/prn-tf/deltasync/internal/metrics"
)

// applyOverrides layers explicit, user-supplied flag values on top of a
// Config already resolved from defaults, file, and environment. pflag
// tracks which flags were actually set (fs.Changed), so a flag left at
// its zero value never clobbers a value the config file or environment
// already supplied.
func applyOverrides(cfg *config.Config, fs *pflag.FlagSet, chunk *int64, verbose *bool, logLevel, metricsFile *string) {
	if fs.Changed("chunk") {
		cfg.ChunkLength = *chunk
	}
	if fs.Changed("verbose") {
		cfg.Verbose = *verbose
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("metrics-file") {
		cfg.MetricsFile = *metricsFile
	}
}

// writeMetricsFile dumps m to path in Prometheus text format, unless
// path is empty, in which case a run produces no metrics output.
func writeMetricsFile(m *metrics.Metrics, path string, logger zerolog.Logger) {
	if path == "" {
		return
	}
	f, err := createOutput(path, "metrics")
	if err != nil {
		logger.Warn().Err(err).Msg("failed to write metrics file")
		return
	}
	defer f.Close()
	if err := m.WriteText(f); err != nil {
		logger.Warn().Err(err).Msg("failed to encode metrics")
		fmt.Fprintln(os.Stderr, err)
	}
}
