package sheet

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB emulates the cell table for the statements PostgresStore issues.
type fakeDB struct {
	cells map[cell]string
	sql   []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{cells: make(map[cell]string)}
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	switch {
	case strings.HasPrefix(sql, "CREATE TABLE"):
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	case strings.HasPrefix(sql, "DELETE"):
		delete(f.cells, cell{args[0].(int), args[1].(int)})
		return pgconn.NewCommandTag("DELETE 1"), nil
	case strings.HasPrefix(sql, "INSERT"):
		f.cells[cell{args[0].(int), args[1].(int)}] = args[2].(string)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	if strings.Contains(sql, "MAX(row_index)") {
		last := 1
		for k, v := range f.cells {
			if v != "" && k.row > last {
				last = k.row
			}
		}
		return fakeRow{value: last}
	}
	v, ok := f.cells[cell{args[0].(int), args[1].(int)}]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

type fakeRow struct {
	value any
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch d := dest[0].(type) {
	case *string:
		*d = r.value.(string)
	case *int:
		*d = r.value.(int)
	}
	return nil
}

func TestPostgresStore_Cells(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	store := NewPostgresStore(db, "rates.sheet_cells")

	require.NoError(t, store.EnsureSchema(ctx))
	assert.Contains(t, db.sql[0], `"rates"."sheet_cells"`)

	v, err := store.ReadCell(ctx, 2, 18)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, store.WriteCell(ctx, 12, 18, "START"))
	v, err = store.ReadCell(ctx, 12, 18)
	require.NoError(t, err)
	assert.Equal(t, "START", v)

	last, err := store.LastRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, last)

	require.NoError(t, store.WriteCell(ctx, 12, 18, ""))
	v, _ = store.ReadCell(ctx, 12, 18)
	assert.Empty(t, v)

	last, _ = store.LastRow(ctx)
	assert.Equal(t, 1, last)
}

func TestPostgresStore_InvalidAddress(t *testing.T) {
	store := NewPostgresStore(newFakeDB(), "cells")

	assert.Error(t, store.WriteCell(context.Background(), 0, 0, "x"))
}
