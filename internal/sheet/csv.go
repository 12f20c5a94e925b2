package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVStore is a Store over a CSV export of the sheet. Writes are kept in
// memory until Flush rewrites the file.
type CSVStore struct {
	*MemoryStore
	path string
}

// OpenCSV loads the CSV file at path.
func OpenCSV(path string) (*CSVStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sheet: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", path, err)
	}

	return &CSVStore{
		MemoryStore: NewMemoryStore(records),
		path:        path,
	}, nil
}

// Flush writes the current contents back to the file, replacing it atomically.
func (s *CSVStore) Flush(ctx context.Context) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".sheet-*.csv")
	if err != nil {
		return fmt.Errorf("creating temp sheet: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(s.Snapshot()); err != nil {
		tmp.Close()
		return fmt.Errorf("writing sheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp sheet: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing sheet: %w", err)
	}
	return nil
}

var (
	_ Store   = (*CSVStore)(nil)
	_ Flusher = (*CSVStore)(nil)
)
