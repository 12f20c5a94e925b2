package sheet_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rateshop/internal/sheet"
)

func TestCSVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,from\n1,30301\n2,10001\n"), 0o644))

	store, err := sheet.OpenCSV(path)
	require.NoError(t, err)

	last, err := store.LastRow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, last)

	v, _ := store.ReadCell(ctx, 2, 2)
	assert.Equal(t, "30301", v)

	require.NoError(t, store.WriteCell(ctx, 3, 4, "START"))
	require.NoError(t, store.Flush(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,from,,\n1,30301,,\n2,10001,,START\n", string(data))

	reopened, err := sheet.OpenCSV(path)
	require.NoError(t, err)
	marker, _ := reopened.ReadCell(ctx, 3, 4)
	assert.Equal(t, "START", marker)
}

func TestOpenCSV_Missing(t *testing.T) {
	_, err := sheet.OpenCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
