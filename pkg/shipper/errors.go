package shipper

import (
	"errors"
	"fmt"
)

// ShipperError represents an error from a rating provider for one carrier.
type ShipperError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Cause      error
}

// Error implements the error interface.
func (e *ShipperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ShipperError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ShipperError.
func (e *ShipperError) Is(target error) bool {
	t, ok := target.(*ShipperError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewShipperError creates a new ShipperError.
func NewShipperError(carrier, code, message string) *ShipperError {
	return &ShipperError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *ShipperError) WithCause(err error) *ShipperError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *ShipperError) WithStatusCode(code int) *ShipperError {
	e.StatusCode = code
	return e
}

// Error codes used by providers when reporting soft failures.
const (
	CodeProviderInternal = "PROVIDER_INTERNAL"
	CodeHTTPStatus       = "HTTP_STATUS"
	CodeTransport        = "TRANSPORT"
	CodeMalformed        = "MALFORMED_RESPONSE"
)

// Sentinel errors for common rating scenarios.
var (
	// ErrProviderUnavailable indicates the provider failed internally (HTTP 500).
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrMalformedResponse indicates the provider response could not be parsed.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrAuthenticationFailed indicates provider authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrInvalidShipment indicates a dataset row could not be read as a shipment.
	ErrInvalidShipment = errors.New("invalid shipment")

	// ErrCarrierNotFound indicates the requested carrier is not registered.
	ErrCarrierNotFound = errors.New("carrier not found")
)

// IsProviderInternal reports whether err is a provider-side internal error.
func IsProviderInternal(err error) bool {
	return errors.Is(err, &ShipperError{Code: CodeProviderInternal}) ||
		errors.Is(err, ErrProviderUnavailable)
}
