package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/prn-tf/deltasync/internal/config"
	"github.com/prn-tf/deltasync/internal/metrics"
	"github.com/prn-tf/deltasync/internal/rdelta"
	"github.com/prn-tf/deltasync/internal/rdelta/wire"
)

func runPatch(runID string, args []string) int {
	fs := pflag.NewFlagSet("patch", pflag.ContinueOnError)
	chunk := fs.Int64P("chunk", "c", 0, "size of chunks in bytes (unused by patch, accepted for symmetry)")
	verbose := fs.BoolP("verbose", "v", false, "show per-instruction progress")
	logLevel := fs.String("log-level", "", "debug, info, warn, or error")
	configPath := fs.String("config", "", "path to a deltasync config file")
	metricsFile := fs.String("metrics-file", "", "write Prometheus metrics text to this file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "patch: expected old-file, delta-file, and out-file arguments")
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applyOverrides(cfg, fs, chunk, verbose, logLevel, metricsFile)

	logger := newLogger(cfg.Verbose, cfg.LogLevel).With().Str("run_id", runID).Str("command", "patch").Logger()
	mtr := metrics.New()

	oldPath, deltaPath, outPath := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	oldFile, err := openInput(oldPath, "old")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer oldFile.Close()

	deltaFile, err := openInput(deltaPath, "delta")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer deltaFile.Close()

	d, err := wire.DecodeDelta(deltaFile)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read delta")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	outFile, err := createOutput(outPath, "output")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer outFile.Close()

	start := time.Now()
	err = rdelta.Patch(context.Background(), logger, rdelta.NewSeekingSource(oldFile), d, outFile)
	mtr.PatchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Msg("failed to apply patch")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	mtr.PatchInstructionsApplied.Add(float64(len(d.Instructions)))
	mtr.PatchBytesWritten.Add(float64(d.DataLength))

	logger.Info().Uint64("bytes", d.DataLength).Msg("patch applied")
	writeMetricsFile(mtr, cfg.MetricsFile, logger)
	return 0
}
