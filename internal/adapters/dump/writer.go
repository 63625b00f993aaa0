// Package dump writes the post-commit recovery export: a JSON snapshot of
// the active ledger, replaced atomically on every committed change.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/example/cruisebot/internal/ports/secondary"
)

// Writer implements secondary.DumpWriter with a write-then-rename so a
// crash mid-export never leaves a torn file.
type Writer struct {
	path   string
	logger *zap.Logger
}

// NewWriter creates a dump writer targeting path.
func NewWriter(path string, logger *zap.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// WriteDump replaces the export file with the given payload.
func (w *Writer) WriteDump(ctx context.Context, payload *secondary.DumpPayload) error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("failed to create dump directory: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dump: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return fmt.Errorf("failed to replace dump: %w", err)
	}

	w.logger.Debug("wrote ledger dump",
		zap.String("path", w.path),
		zap.Int("carriers", len(payload.Carriers)))
	return nil
}

// Ensure Writer implements the interface
var _ secondary.DumpWriter = (*Writer)(nil)
