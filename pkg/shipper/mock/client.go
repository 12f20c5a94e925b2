// Package mock provides a mock rate provider for testing.
package mock

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tournevent/rateshop/pkg/shipper"
)

// Client is a mock rate provider. By default every call returns one ground
// quote priced from the carrier code; OnGetRates overrides that.
type Client struct {
	name string

	OnGetRates func(ctx context.Context, req *shipper.RateRequest) shipper.CallResult

	mu    sync.Mutex
	calls []shipper.RateRequest
}

// New creates a new mock rate provider.
func New(name string) *Client {
	return &Client{name: name}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return c.name
}

// GetRates records the call and returns a canned result.
func (c *Client) GetRates(ctx context.Context, req *shipper.RateRequest) shipper.CallResult {
	c.mu.Lock()
	c.calls = append(c.calls, *req)
	c.mu.Unlock()

	if c.OnGetRates != nil {
		return c.OnGetRates(ctx, req)
	}

	return shipper.Ok(req, []shipper.RateQuote{
		{
			Carrier: req.Carrier.Name,
			Service: req.Carrier.Name + " Ground",
			Price:   defaultPrice(req.Carrier.Code),
			Label:   req.Candidate.Label,
		},
	})
}

// Calls returns a copy of every request seen so far.
func (c *Client) Calls() []shipper.RateRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]shipper.RateRequest, len(c.calls))
	copy(out, c.calls)
	return out
}

func defaultPrice(code string) decimal.Decimal {
	switch code {
	case shipper.CarrierFedEx:
		return decimal.RequireFromString("13.34")
	case shipper.CarrierUPS:
		return decimal.RequireFromString("15.00")
	case shipper.CarrierUSPS:
		return decimal.RequireFromString("12.00")
	default:
		return decimal.RequireFromString("20.00")
	}
}

var _ shipper.RateProvider = (*Client)(nil)
