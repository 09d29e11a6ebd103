// Package csvfile stores each record table as a comma-separated file with a
// header row.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mamadbah2/traders/internal/config"
	"github.com/mamadbah2/traders/internal/domain/models"
)

// Table implements records.Table on the local filesystem.
type Table struct {
	paths  map[models.Kind]string
	logger *zap.Logger
}

// NewTable maps each kind to its configured file.
func NewTable(cfg config.StorageConfig, logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		paths: map[models.Kind]string{
			models.KindPurchase:     cfg.PurchaseFile,
			models.KindSale:         cfg.SaleFile,
			models.KindModelHistory: cfg.ModelHistoryFile,
		},
		logger: logger,
	}
}

// Path returns the file backing kind.
func (t *Table) Path(kind models.Kind) (string, error) {
	path, ok := t.paths[kind]
	if !ok || path == "" {
		return "", fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
	}
	return path, nil
}

// Read parses the whole file. A missing file returns an error wrapping
// fs.ErrNotExist; an empty file returns no rows.
func (t *Table) Read(_ context.Context, kind models.Kind) ([][]string, error) {
	path, err := t.Path(kind)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// Write replaces the file content. Rows go to a temporary file in the same
// directory which is then renamed over the target, so readers see either the
// old or the new table.
func (t *Table) Write(_ context.Context, kind models.Kind, rows [][]string) error {
	path, err := t.Path(kind)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	t.logger.Debug("table written", zap.String("path", path), zap.Int("rows", len(rows)))
	return nil
}
