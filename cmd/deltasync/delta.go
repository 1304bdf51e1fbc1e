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

func runDelta(runID string, args []string) int {
	fs := pflag.NewFlagSet("delta", pflag.ContinueOnError)
	chunk := fs.Int64P("chunk", "c", 0, "size of chunks in bytes")
	verbose := fs.BoolP("verbose", "v", false, "show per-matched-chunk progress")
	logLevel := fs.String("log-level", "", "debug, info, warn, or error")
	configPath := fs.String("config", "", "path to a deltasync config file")
	metricsFile := fs.String("metrics-file", "", "write Prometheus metrics text to this file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "delta: expected signature-file, new-file, and delta-file arguments")
		return 1
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applyOverrides(cfg, fs, chunk, verbose, logLevel, metricsFile)

	logger := newLogger(cfg.Verbose, cfg.LogLevel).With().Str("run_id", runID).Str("command", "delta").Logger()
	mtr := metrics.New()

	sigPath, newPath, deltaPath := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	sigFile, err := openInput(sigPath, "signature")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sigFile.Close()

	sig, err := wire.DecodeSignature(sigFile)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read signature")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	newFile, err := openInput(newPath, "new")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer newFile.Close()

	newSize, err := fileSize(newFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	start := time.Now()
	d, err := rdelta.Synthesize(context.Background(), logger, sig, newFile, newSize)
	mtr.DeltaDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Msg("failed to synthesize delta")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	for _, inst := range d.Instructions {
		switch inst.Type {
		case rdelta.InstructionCopyData:
			mtr.RecordInstruction("copy_data", inst.DataLength)
		case rdelta.InstructionCopyChunk:
			mtr.RecordInstruction("copy_chunk", inst.DataLength)
		}
	}

	deltaFile, err := createOutput(deltaPath, "delta")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer deltaFile.Close()

	if err := wire.EncodeDelta(deltaFile, d); err != nil {
		logger.Error().Err(err).Msg("failed to write delta")
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger.Info().Int("instructions", len(d.Instructions)).Msg("delta written")
	writeMetricsFile(mtr, cfg.MetricsFile, logger)
	return 0
}
