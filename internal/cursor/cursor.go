// Package cursor persists the single "next row to process" marker in the
// dataset's marker column.
package cursor

import (
	"context"
	"fmt"
	"strings"

	"github.com/tournevent/rateshop/internal/sheet"
)

// Marker is the token written into the marker column.
const Marker = "START"

// Manager reads and moves the marker.
type Manager struct {
	store    sheet.Store
	column   int
	firstRow int
}

// New creates a cursor manager for the marker column of layout.
func New(store sheet.Store, layout sheet.Layout) *Manager {
	return &Manager{
		store:    store,
		column:   layout.Marker,
		firstRow: layout.FirstDataRow,
	}
}

// FirstRow returns the first data row, where processing starts without a marker.
func (m *Manager) FirstRow() int {
	return m.firstRow
}

// FindStart returns the first row holding the marker. found is false when no
// row carries it.
func (m *Manager) FindStart(ctx context.Context) (row int, found bool, err error) {
	rows, err := m.markedRows(ctx)
	if err != nil || len(rows) == 0 {
		return 0, false, err
	}
	return rows[0], true, nil
}

// Set places the marker on row, clearing any other marker first so that at
// most one row carries it.
func (m *Manager) Set(ctx context.Context, row int) error {
	if row < m.firstRow {
		return fmt.Errorf("marker row %d is before the first data row %d", row, m.firstRow)
	}
	marked, err := m.markedRows(ctx)
	if err != nil {
		return err
	}
	for _, r := range marked {
		if r == row {
			continue
		}
		if err := m.Clear(ctx, r); err != nil {
			return err
		}
	}
	if err := m.store.WriteCell(ctx, row, m.column, Marker); err != nil {
		return fmt.Errorf("setting marker at row %d: %w", row, err)
	}
	return nil
}

// Clear removes the marker from row.
func (m *Manager) Clear(ctx context.Context, row int) error {
	if err := m.store.WriteCell(ctx, row, m.column, ""); err != nil {
		return fmt.Errorf("clearing marker at row %d: %w", row, err)
	}
	return nil
}

// ClearAll removes every marker in the dataset.
func (m *Manager) ClearAll(ctx context.Context) error {
	marked, err := m.markedRows(ctx)
	if err != nil {
		return err
	}
	for _, r := range marked {
		if err := m.Clear(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) markedRows(ctx context.Context) ([]int, error) {
	last, err := m.store.LastRow(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading last row: %w", err)
	}
	var rows []int
	for r := m.firstRow; r <= last; r++ {
		v, err := m.store.ReadCell(ctx, r, m.column)
		if err != nil {
			return nil, fmt.Errorf("reading marker at row %d: %w", r, err)
		}
		if strings.TrimSpace(v) == Marker {
			rows = append(rows, r)
		}
	}
	return rows, nil
}
