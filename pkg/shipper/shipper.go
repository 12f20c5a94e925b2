// Package shipper provides the carrier-neutral model for rate shopping:
// shipment requests, destination candidates, carriers, quotes and the
// aggregation that picks the cheapest quote per candidate.
package shipper

import (
	"context"
)

// RateProvider defines the interface a rating backend must implement.
type RateProvider interface {
	// Name returns the provider identifier (e.g., "shipstation").
	Name() string

	// GetRates issues one rate request for a single (candidate, carrier) pair.
	// Failures are reported through the returned CallResult, never as a panic
	// or a separate error, so callers can keep going with the other pairs.
	GetRates(ctx context.Context, req *RateRequest) CallResult
}
