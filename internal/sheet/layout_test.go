package sheet_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rateshop/internal/sheet"
	"github.com/tournevent/rateshop/pkg/shipper"
)

// row builds a dataset row in the default layout (index 0 is column 1).
func row(origin, state, country, zip1, zip2, city, weight, length, width, height string) []string {
	return []string{"id", origin, state, country, zip1, zip2, city, weight, length, width, height}
}

func TestRows_ReadShipment(t *testing.T) {
	store := sheet.NewMemoryStore([][]string{
		{"header"},
		row("30301", "CA", "Canada", " 90210 ", "10001", "Beverly Hills", "3.5", "12", "8", "4"),
	})
	rows := sheet.NewRows(store, sheet.DefaultLayout())

	req, err := rows.ReadShipment(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, shipper.ShipmentRequest{
		OriginPostalCode:    "30301",
		DestinationState:    "CA",
		DestinationCountry:  "Canada",
		PrimaryPostalCode:   "90210",
		SecondaryPostalCode: "10001",
		DestinationCity:     "Beverly Hills",
		Weight:              3.5,
		Length:              12,
		Width:               8,
		Height:              4,
		Residential:         true,
	}, req)
}

func TestRows_ReadShipment_BadNumber(t *testing.T) {
	store := sheet.NewMemoryStore([][]string{
		{"header"},
		row("30301", "CA", "US", "90210", "", "LA", "heavy", "1", "1", "1"),
	})
	rows := sheet.NewRows(store, sheet.DefaultLayout())

	_, err := rows.ReadShipment(context.Background(), 2)

	assert.True(t, errors.Is(err, shipper.ErrInvalidShipment))
	assert.Contains(t, err.Error(), "weight")
}

func TestRows_ReadShipment_MissingPostalCode(t *testing.T) {
	store := sheet.NewMemoryStore([][]string{
		{"header"},
		row("30301", "CA", "US", "", "", "LA", "1", "1", "1", "1"),
	})
	rows := sheet.NewRows(store, sheet.DefaultLayout())

	_, err := rows.ReadShipment(context.Background(), 2)

	assert.True(t, errors.Is(err, shipper.ErrInvalidShipment))
}

func TestRows_WriteResult_PrimaryOnly(t *testing.T) {
	ctx := context.Background()
	store := sheet.NewMemoryStore([][]string{{"header"}})
	rows := sheet.NewRows(store, sheet.DefaultLayout())
	require.NoError(t, store.WriteCell(ctx, 2, 16, "untouched"))

	candidates := []shipper.DestinationCandidate{{PostalCode: "90210", Label: shipper.LabelPrimary}}
	agg := shipper.Aggregate([]shipper.RateQuote{
		{Carrier: "USPS", Service: "USPS Ground Advantage", Price: decimal.RequireFromString("12"), Label: shipper.LabelPrimary},
	}, candidates)

	require.NoError(t, rows.WriteResult(ctx, 2, agg, false))

	listing, _ := store.ReadCell(ctx, 2, 13)
	methods, _ := store.ReadCell(ctx, 2, 14)
	price, _ := store.ReadCell(ctx, 2, 15)
	secondary, _ := store.ReadCell(ctx, 2, 16)
	secondaryPrice, _ := store.ReadCell(ctx, 2, 17)

	assert.Equal(t, "USPS: $12.00 (USPS Ground Advantage, to postal code 1)", listing)
	assert.Equal(t, "USPS (USPS Ground Advantage)", methods)
	assert.Equal(t, "$12.00", price)
	assert.Equal(t, "untouched", secondary)
	assert.Empty(t, secondaryPrice)
}

func TestRows_WriteResult_SecondaryWithoutQuotes(t *testing.T) {
	ctx := context.Background()
	store := sheet.NewMemoryStore([][]string{{"header"}})
	rows := sheet.NewRows(store, sheet.DefaultLayout())

	candidates := []shipper.DestinationCandidate{
		{PostalCode: "90210", Label: shipper.LabelPrimary},
		{PostalCode: "10001", Label: shipper.LabelSecondary},
	}
	agg := shipper.Aggregate(nil, candidates)

	require.NoError(t, rows.WriteResult(ctx, 5, agg, true))

	for col, want := range map[int]string{
		13: "No rates available",
		14: "No methods available",
		15: "No price available",
		16: "No methods available",
		17: "No price available",
	} {
		got, _ := store.ReadCell(ctx, 5, col)
		assert.Equal(t, want, got, "column %d", col)
	}
}
