package sheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tournevent/rateshop/pkg/shipper"
)

// Layout maps shipment fields and result slots to column numbers.
type Layout struct {
	FirstDataRow int

	OriginPostalCode    int
	DestinationState    int
	DestinationCountry  int
	PrimaryPostalCode   int
	SecondaryPostalCode int
	DestinationCity     int
	Weight              int
	Length              int
	Width               int
	Height              int

	Listing          int
	PrimaryMethods   int
	PrimaryPrice     int
	SecondaryMethods int
	SecondaryPrice   int

	Marker int
}

// DefaultLayout is the fixed column layout of the rate-shopping sheet.
func DefaultLayout() Layout {
	return Layout{
		FirstDataRow:        2,
		OriginPostalCode:    2,
		DestinationState:    3,
		DestinationCountry:  4,
		PrimaryPostalCode:   5,
		SecondaryPostalCode: 6,
		DestinationCity:     7,
		Weight:              8,
		Length:              9,
		Width:               10,
		Height:              11,
		Listing:             13,
		PrimaryMethods:      14,
		PrimaryPrice:        15,
		SecondaryMethods:    16,
		SecondaryPrice:      17,
		Marker:              18,
	}
}

// Rows is typed row access on top of a Store.
type Rows struct {
	store  Store
	layout Layout
}

// NewRows creates a typed row accessor.
func NewRows(store Store, layout Layout) *Rows {
	return &Rows{store: store, layout: layout}
}

// ReadShipment loads the shipment request stored at row.
func (r *Rows) ReadShipment(ctx context.Context, row int) (shipper.ShipmentRequest, error) {
	l := r.layout
	var req shipper.ShipmentRequest

	text := []struct {
		col int
		dst *string
	}{
		{l.OriginPostalCode, &req.OriginPostalCode},
		{l.DestinationState, &req.DestinationState},
		{l.DestinationCountry, &req.DestinationCountry},
		{l.PrimaryPostalCode, &req.PrimaryPostalCode},
		{l.SecondaryPostalCode, &req.SecondaryPostalCode},
		{l.DestinationCity, &req.DestinationCity},
	}
	for _, f := range text {
		v, err := r.store.ReadCell(ctx, row, f.col)
		if err != nil {
			return req, fmt.Errorf("reading row %d column %d: %w", row, f.col, err)
		}
		*f.dst = strings.TrimSpace(v)
	}

	numeric := []struct {
		name string
		col  int
		dst  *float64
	}{
		{"weight", l.Weight, &req.Weight},
		{"length", l.Length, &req.Length},
		{"width", l.Width, &req.Width},
		{"height", l.Height, &req.Height},
	}
	for _, f := range numeric {
		v, err := r.store.ReadCell(ctx, row, f.col)
		if err != nil {
			return req, fmt.Errorf("reading row %d column %d: %w", row, f.col, err)
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return req, fmt.Errorf("%w: row %d %s %q", shipper.ErrInvalidShipment, row, f.name, v)
		}
		*f.dst = n
	}

	if req.PrimaryPostalCode == "" {
		return req, fmt.Errorf("%w: row %d has no destination postal code", shipper.ErrInvalidShipment, row)
	}
	req.Residential = true
	return req, nil
}

// WriteResult stores the aggregated quotes of one row. The secondary columns
// are only written when the row has a secondary postal code.
func (r *Rows) WriteResult(ctx context.Context, row int, agg shipper.Aggregation, hasSecondary bool) error {
	l := r.layout
	writes := []cellWrite{
		{l.Listing, agg.Listing},
		{l.PrimaryMethods, bestOf(agg, shipper.LabelPrimary).Methods},
		{l.PrimaryPrice, bestOf(agg, shipper.LabelPrimary).Price},
	}
	if hasSecondary {
		writes = append(writes,
			cellWrite{l.SecondaryMethods, bestOf(agg, shipper.LabelSecondary).Methods},
			cellWrite{l.SecondaryPrice, bestOf(agg, shipper.LabelSecondary).Price},
		)
	}

	for _, w := range writes {
		if err := r.store.WriteCell(ctx, row, w.col, w.value); err != nil {
			return fmt.Errorf("writing row %d column %d: %w", row, w.col, err)
		}
	}
	return nil
}

type cellWrite struct {
	col   int
	value string
}

func bestOf(agg shipper.Aggregation, label string) shipper.Best {
	if b, ok := agg.Best[label]; ok {
		return b
	}
	return shipper.Cheapest(label, nil)
}
