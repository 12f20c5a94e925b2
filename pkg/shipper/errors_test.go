package shipper_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/rateshop/pkg/shipper"
)

func TestShipperError_Error(t *testing.T) {
	err := shipper.NewShipperError("FedEx", shipper.CodeHTTPStatus, "unexpected status 401")
	assert.Equal(t, "FedEx error (HTTP_STATUS): unexpected status 401", err.Error())
}

func TestShipperError_ErrorWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := shipper.NewShipperError("UPS", shipper.CodeTransport, "request failed").WithCause(cause)
	assert.Contains(t, err.Error(), "request failed")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestShipperError_Unwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := shipper.NewShipperError("UPS", shipper.CodeTransport, "request failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestShipperError_Is(t *testing.T) {
	err1 := shipper.NewShipperError("FedEx", shipper.CodeMalformed, "bad json")
	err2 := shipper.NewShipperError("USPS", shipper.CodeMalformed, "other message")
	assert.True(t, errors.Is(err1, err2))

	err3 := shipper.NewShipperError("FedEx", shipper.CodeTransport, "timeout")
	assert.False(t, errors.Is(err1, err3))
}

func TestShipperError_WithStatusCode(t *testing.T) {
	err := shipper.NewShipperError("FedEx", shipper.CodeProviderInternal, "internal").WithStatusCode(500)
	assert.Equal(t, 500, err.StatusCode)
}

func TestIsProviderInternal(t *testing.T) {
	internal := shipper.NewShipperError("FedEx", shipper.CodeProviderInternal, "internal").WithStatusCode(500)
	assert.True(t, shipper.IsProviderInternal(internal))
	assert.True(t, shipper.IsProviderInternal(fmt.Errorf("wrapped: %w", internal)))
	assert.True(t, shipper.IsProviderInternal(shipper.ErrProviderUnavailable))

	other := shipper.NewShipperError("FedEx", shipper.CodeTransport, "timeout")
	assert.False(t, shipper.IsProviderInternal(other))
	assert.False(t, shipper.IsProviderInternal(shipper.ErrMalformedResponse))
}
