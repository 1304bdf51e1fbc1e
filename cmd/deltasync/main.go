// Command deltasync computes rsync-style signatures, deltas, and
// patches over local files.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	runID := uuid.New().String()[:8]

	// Usage errors (no command, an unknown command, bad subcommand
	// arguments) exit with status 1 rather than 0; only --help exits 0.
	if len(args) < 1 {
		showUsage(os.Args[0])
		return 1
	}

	switch args[0] {
	case "-h", "--help":
		showUsage(os.Args[0])
		return 0
	case "signature":
		return runSignature(runID, args[1:])
	case "delta":
		return runDelta(runID, args[1:])
	case "patch":
		return runPatch(runID, args[1:])
	default:
		showUsage(os.Args[0])
		return 1
	}
}

func showUsage(programName string) {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [options]

Commands:
  signature old-file signature-file
  delta signature-file new-file delta-file
  patch old-file delta-file out-file

Options:
  -c, --chunk int        Size of chunks in bytes (default 100)
  -v, --verbose          Show per-chunk / per-instruction progress
      --log-level level  debug, info, warn, or error (default "info")
      --config file      Path to a deltasync config file
      --metrics-file file  Write Prometheus metrics text to this file
  -h, --help             Show this help message
`, programName)
}

func newLogger(verbose bool, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if verbose && lvl > zerolog.DebugLevel {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
