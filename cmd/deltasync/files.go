package main

import (
	"fmt"
	"os"
)

// openInput opens path for reading, wrapping the error with which role
// the file plays in the command so failures are actionable from the
// CLI's own error output.
func openInput(path, role string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %q: %w", role, path, err)
	}
	return f, nil
}

// createOutput creates (or truncates) path for writing.
func createOutput(path, role string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s file %q: %w", role, path, err)
	}
	return f, nil
}

// fileSize returns the size in bytes of an already-open file.
func fileSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat file %q: %w", f.Name(), err)
	}
	return info.Size(), nil
}
