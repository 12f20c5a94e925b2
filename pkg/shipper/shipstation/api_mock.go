package shipstation

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateStatus  int // Returned as an *APIError when non-zero
	SimulateLatency time.Duration

	OnGetRates func(ctx context.Context, req *RatesRequest) ([]Service, error)

	mu       sync.Mutex
	requests []RatesRequest
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetRates returns mock shipping rates.
func (m *MockAPIClient) GetRates(ctx context.Context, req *RatesRequest) ([]Service, error) {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	m.mu.Unlock()

	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateStatus != 0 {
		return nil, &APIError{StatusCode: m.SimulateStatus, Message: "Simulated API error"}
	}

	if m.SimulateErrors {
		return nil, &APIError{StatusCode: http.StatusInternalServerError, Message: "Simulated API error"}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	return mockServices(req.CarrierCode), nil
}

// Requests returns a copy of every request seen so far.
func (m *MockAPIClient) Requests() []RatesRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RatesRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func mockServices(carrierCode string) []Service {
	switch carrierCode {
	case "fedex":
		return []Service{
			{ServiceName: "FedEx Ground®", ServiceCode: "fedex_ground", ShipmentCost: dec("11.84"), OtherCost: dec("1.50")},
			{ServiceName: "FedEx Home Delivery®", ServiceCode: "fedex_home_delivery", ShipmentCost: dec("12.40"), OtherCost: dec("1.50")},
			{ServiceName: "FedEx 2Day®", ServiceCode: "fedex_2day", ShipmentCost: dec("31.08"), OtherCost: dec("2.10")},
		}
	case "ups":
		return []Service{
			{ServiceName: "UPS® Ground", ServiceCode: "ups_ground", ShipmentCost: dec("14.10"), OtherCost: dec("0.90")},
			{ServiceName: "UPS Next Day Air®", ServiceCode: "ups_next_day_air", ShipmentCost: dec("58.25"), OtherCost: dec("0")},
		}
	case "stamps_com":
		return []Service{
			{ServiceName: "USPS Ground Advantage", ServiceCode: "usps_ground_advantage", ShipmentCost: dec("12.00"), OtherCost: dec("0")},
			{ServiceName: "USPS Parcel Select Ground", ServiceCode: "usps_parcel_select", ShipmentCost: dec("12.35"), OtherCost: dec("0")},
			{ServiceName: "USPS Priority Mail", ServiceCode: "usps_priority_mail", ShipmentCost: dec("16.95"), OtherCost: dec("0")},
		}
	default:
		return nil
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
