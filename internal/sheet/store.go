// Package sheet abstracts the tabular dataset the rate-shopping job reads
// shipments from and writes results to. Rows and columns are 1-indexed and
// row 1 is the header.
package sheet

import (
	"context"
	"fmt"
	"sync"
)

// Store is cell-level access to the dataset.
type Store interface {
	ReadCell(ctx context.Context, row, col int) (string, error)
	WriteCell(ctx context.Context, row, col int, value string) error
	// LastRow returns the last row holding any content, or 1 when only the
	// header (or nothing) is present.
	LastRow(ctx context.Context) (int, error)
}

// Flusher is implemented by stores that buffer writes until flushed.
type Flusher interface {
	Flush(ctx context.Context) error
}

type cell struct {
	row, col int
}

// MemoryStore is an in-memory Store. It backs tests and the CSV store.
type MemoryStore struct {
	mu    sync.RWMutex
	cells map[cell]string
}

// NewMemoryStore creates a store seeded with rows; rows[0] becomes row 1.
func NewMemoryStore(rows [][]string) *MemoryStore {
	m := &MemoryStore{cells: make(map[cell]string)}
	for r, values := range rows {
		for c, v := range values {
			if v != "" {
				m.cells[cell{r + 1, c + 1}] = v
			}
		}
	}
	return m
}

// ReadCell returns the cell value, or "" when the cell is empty.
func (m *MemoryStore) ReadCell(ctx context.Context, row, col int) (string, error) {
	if err := checkAddress(row, col); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cells[cell{row, col}], nil
}

// WriteCell sets the cell value. Writing "" clears the cell.
func (m *MemoryStore) WriteCell(ctx context.Context, row, col int, value string) error {
	if err := checkAddress(row, col); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.cells, cell{row, col})
		return nil
	}
	m.cells[cell{row, col}] = value
	return nil
}

// LastRow returns the last row holding content.
func (m *MemoryStore) LastRow(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	last, _ := m.bounds()
	return last, nil
}

// Snapshot returns the dataset as a dense grid, header included.
func (m *MemoryStore) Snapshot() [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lastRow, lastCol := m.bounds()
	grid := make([][]string, lastRow)
	for r := range grid {
		grid[r] = make([]string, lastCol)
	}
	for k, v := range m.cells {
		grid[k.row-1][k.col-1] = v
	}
	return grid
}

func (m *MemoryStore) bounds() (lastRow, lastCol int) {
	lastRow = 1
	for k := range m.cells {
		if k.row > lastRow {
			lastRow = k.row
		}
		if k.col > lastCol {
			lastCol = k.col
		}
	}
	return lastRow, lastCol
}

func checkAddress(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell address (%d, %d)", row, col)
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
