package shipstation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// APIClient defines the interface for ShipStation API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetRates fetches shipping rates for one carrier from ShipStation.
	GetRates(ctx context.Context, req *RatesRequest) ([]Service, error)
}

// ============================================================================
// API Request/Response Types (match ShipStation REST API structure)
// ============================================================================

// RatesRequest represents a ShipStation rate request.
// POST /shipments/getrates endpoint
type RatesRequest struct {
	CarrierCode    string     `json:"carrierCode"`
	FromPostalCode string     `json:"fromPostalCode"`
	ToState        string     `json:"toState"`
	ToCountry      string     `json:"toCountry"`
	ToPostalCode   string     `json:"toPostalCode"`
	ToCity         string     `json:"toCity"`
	Weight         Weight     `json:"weight"`
	Dimensions     Dimensions `json:"dimensions"`
	Confirmation   string     `json:"confirmation"`
	Residential    bool       `json:"residential"`
}

// Weight is the package weight.
type Weight struct {
	Value float64 `json:"value"`
	Units string  `json:"units"` // "pounds", "ounces", "grams"
}

// Dimensions represents package dimensions.
type Dimensions struct {
	Units  string  `json:"units"` // "inches", "centimeters"
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Service is one rated service in the getrates response array.
type Service struct {
	ServiceName  string          `json:"serviceName"`
	ServiceCode  string          `json:"serviceCode"`
	ShipmentCost decimal.Decimal `json:"shipmentCost"`
	OtherCost    decimal.Decimal `json:"otherCost"`
}

// Total returns the full price of the service.
func (s Service) Total() decimal.Decimal {
	return s.ShipmentCost.Add(s.OtherCost)
}

// ErrDecode marks a response body that could not be decoded.
var ErrDecode = errors.New("failed to decode rates response")

// APIError represents an error from the ShipStation API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"ExceptionType,omitempty"`
	Message    string `json:"Message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("HTTP %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
