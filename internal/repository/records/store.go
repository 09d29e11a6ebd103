// Package records persists purchases, sales and the model history as
// header-first tables.
//
// Every write reads the whole table, modifies it in memory and rewrites it.
// Nothing coordinates separate processes: two writers racing on the same table
// lose one of the updates, the last write wins.
package records

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"go.uber.org/zap"

	"github.com/mamadbah2/traders/internal/domain/models"
)

// Table is the raw row storage behind the Store. Read returns every row
// including the header; a table that was never created yields an error
// wrapping fs.ErrNotExist. Write replaces the whole table.
type Table interface {
	Read(ctx context.Context, kind models.Kind) ([][]string, error)
	Write(ctx context.Context, kind models.Kind, rows [][]string) error
}

// Store provides typed access to the three tables.
type Store struct {
	table  Table
	logger *zap.Logger
}

// NewStore wraps a table backend.
func NewStore(table Table, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{table: table, logger: logger}
}

// EnsureInitialized writes the canonical header when the table is missing or
// empty. An existing table is left untouched.
func (s *Store) EnsureInitialized(ctx context.Context, kind models.Kind) error {
	if kind.Header() == nil {
		return fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
	}

	rows, err := s.table.Read(ctx, kind)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("%w: read %s: %w", models.ErrStorageRead, kind, err)
	case len(rows) > 0:
		return nil
	}

	if err := s.table.Write(ctx, kind, [][]string{kind.Header()}); err != nil {
		return fmt.Errorf("%w: initialize %s: %w", models.ErrStorageWrite, kind, err)
	}
	s.logger.Info("table initialized", zap.String("kind", string(kind)))
	return nil
}

// EnsureAll initializes every table, attempting each one even when an earlier
// table fails, and joins the failures.
func (s *Store) EnsureAll(ctx context.Context) error {
	var errs []error
	for _, kind := range models.Kinds {
		if err := s.EnsureInitialized(ctx, kind); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Purchases loads every purchase in table order.
func (s *Store) Purchases(ctx context.Context) ([]models.PurchaseRecord, error) {
	return load(ctx, s, models.KindPurchase, decodePurchase)
}

// Sales loads every sale in table order.
func (s *Store) Sales(ctx context.Context) ([]models.SaleRecord, error) {
	return load(ctx, s, models.KindSale, decodeSale)
}

// ModelHistory loads the model history log.
func (s *Store) ModelHistory(ctx context.Context) ([]models.ModelHistoryEntry, error) {
	return load(ctx, s, models.KindModelHistory, decodeModelHistory)
}

// AppendPurchase adds one purchase to the end of the table.
func (s *Store) AppendPurchase(ctx context.Context, r models.PurchaseRecord) error {
	return s.append(ctx, models.KindPurchase, encodePurchase(r))
}

// AppendSale adds one sale to the end of the table.
func (s *Store) AppendSale(ctx context.Context, r models.SaleRecord) error {
	return s.append(ctx, models.KindSale, encodeSale(r))
}

// AppendModelHistory adds one entry to the model history log.
func (s *Store) AppendModelHistory(ctx context.Context, e models.ModelHistoryEntry) error {
	return s.append(ctx, models.KindModelHistory, encodeModelHistory(e))
}

// Count returns the number of data rows in the table.
func (s *Store) Count(ctx context.Context, kind models.Kind) (int, error) {
	header, rows, err := s.readRows(ctx, kind)
	if err != nil {
		return 0, err
	}
	if header == nil {
		return 0, nil
	}
	return len(rows), nil
}

// DeleteByIndices removes the rows at the given zero-based positions and
// rewrites the table. Remaining rows keep their relative order. No row is
// removed when any index is out of range.
func (s *Store) DeleteByIndices(ctx context.Context, kind models.Kind, indices []int) error {
	header, rows, err := s.readRows(ctx, kind)
	if err != nil {
		return err
	}

	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(rows) {
			return fmt.Errorf("%w: %d not in [0, %d)", models.ErrInvalidIndex, i, len(rows))
		}
		drop[i] = struct{}{}
	}
	if len(drop) == 0 {
		return nil
	}

	kept := make([][]string, 0, len(rows)-len(drop)+1)
	kept = append(kept, header)
	for i, row := range rows {
		if _, ok := drop[i]; !ok {
			kept = append(kept, row)
		}
	}

	if err := s.table.Write(ctx, kind, kept); err != nil {
		return fmt.Errorf("%w: rewrite %s: %w", models.ErrStorageWrite, kind, err)
	}
	s.logger.Info("rows deleted",
		zap.String("kind", string(kind)),
		zap.Ints("indices", sortedKeys(drop)),
		zap.Int("remaining", len(kept)-1))
	return nil
}

// ResetAll rewrites the named tables to their header only.
func (s *Store) ResetAll(ctx context.Context, kinds ...models.Kind) error {
	for _, kind := range kinds {
		if kind.Header() == nil {
			return fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
		}
		if err := s.table.Write(ctx, kind, [][]string{kind.Header()}); err != nil {
			return fmt.Errorf("%w: reset %s: %w", models.ErrStorageWrite, kind, err)
		}
		s.logger.Info("table reset", zap.String("kind", string(kind)))
	}
	return nil
}

func (s *Store) append(ctx context.Context, kind models.Kind, row []string) error {
	header, rows, err := s.readRows(ctx, kind)
	if err != nil {
		return err
	}
	if header == nil {
		header = kind.Header()
	}

	out := make([][]string, 0, len(rows)+2)
	out = append(out, header)
	out = append(out, rows...)
	out = append(out, alignRow(kind, header, row))

	if err := s.table.Write(ctx, kind, out); err != nil {
		return fmt.Errorf("%w: append %s: %w", models.ErrStorageWrite, kind, err)
	}
	s.logger.Debug("row appended", zap.String("kind", string(kind)), zap.Int("rows", len(out)-1))
	return nil
}

// readRows returns the header and the data rows. A missing or empty table
// yields a nil header and no rows.
func (s *Store) readRows(ctx context.Context, kind models.Kind) ([]string, [][]string, error) {
	if kind.Header() == nil {
		return nil, nil, fmt.Errorf("%w: %q", models.ErrUnknownKind, kind)
	}

	all, err := s.table.Read(ctx, kind)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %w", models.ErrStorageRead, kind, err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	if _, err := indexHeader(kind, all[0]); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", models.ErrStorageRead, err)
	}
	return all[0], all[1:], nil
}

// alignRow reorders a canonical row to match a table whose header lists the
// canonical columns in a different order.
func alignRow(kind models.Kind, header, row []string) []string {
	if slices.Equal(header, kind.Header()) {
		return row
	}
	cols, err := indexHeader(kind, header)
	if err != nil {
		return row
	}
	out := make([]string, len(header))
	for i, name := range kind.Header() {
		out[cols[name]] = row[i]
	}
	return out
}

func load[T any](ctx context.Context, s *Store, kind models.Kind, decode func(columns, []string) (T, error)) ([]T, error) {
	header, rows, err := s.readRows(ctx, kind)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return []T{}, nil
	}

	cols, err := indexHeader(kind, header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrStorageRead, err)
	}

	out := make([]T, 0, len(rows))
	for i, row := range rows {
		record, err := decode(cols, row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", models.ErrStorageRead, kind, i, err)
		}
		out = append(out, record)
	}
	return out, nil
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
