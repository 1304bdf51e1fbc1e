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

func runSignature(runID string, args []string) int {
	fs := pflag.NewFlagSet("signature", pflag.ContinueOnError)
	chunk := fs.Int64P("chunk", "c", 0, "size of chunks in bytes")
	verbose := fs.BoolP("verbose", "v", false, "show per-chunk progress")
	logLevel := fs.String("log-level", "", "debug, info, warn, or error")
	configPath := fs.String("config", "", "path to a deltasync config file")
	metricsFile := fs.String("metrics-file", "", "write Prometheus metrics text to this file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "signature: expected old-file and signature-file arguments")
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applyOverrides(cfg, fs, chunk, verbose, logLevel, metricsFile)

	logger := newLogger(cfg.Verbose, cfg.LogLevel).With().Str("run_id", runID).Str("command", "signature").Logger()
	mtr := metrics.New()

	oldPath, sigPath := fs.Arg(0), fs.Arg(1)

	oldFile, err := openInput(oldPath, "old")
	if err != nil {
		logger.Error().Err(err).Msg("failed to open old file")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer oldFile.Close()

	size, err := fileSize(oldFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	start := time.Now()
	sig, err := rdelta.BuildSignature(context.Background(), logger, oldFile, size, cfg.ChunkLength)
	mtr.SignatureDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Msg("failed to build signature")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	mtr.SignatureChunksTotal.Add(float64(len(sig.Chunks)))
	mtr.SignatureBytesTotal.Add(float64(size))

	sigFile, err := createOutput(sigPath, "signature")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sigFile.Close()

	if err := wire.EncodeSignature(sigFile, sig); err != nil {
		logger.Error().Err(err).Msg("failed to write signature")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger.Info().Int("chunks", len(sig.Chunks)).Msg("signature written")
	writeMetricsFile(mtr, cfg.MetricsFile, logger)
	return 0
}
