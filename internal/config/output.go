package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// EnsureCleanDir creates the output directory if missing and empties it.
// Each run starts from a clean directory so leftover workbooks and logs
// from earlier runs cannot be mistaken for fresh output. Entries that
// cannot be deleted are logged and skipped.
func EnsureCleanDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("Failed to delete stale output entry", "path", path, "error", err)
		}
	}

	return nil
}
