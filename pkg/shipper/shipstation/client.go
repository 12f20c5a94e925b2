// Package shipstation provides integration with the ShipStation rating API,
// which quotes FedEx, UPS and USPS (through stamps_com) behind one endpoint.
package shipstation

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tournevent/rateshop/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const providerName = "shipstation"

// Call outcomes reported to the Recorder.
const (
	OutcomeOK        = "ok"
	OutcomeInternal  = "provider_internal"
	OutcomeStatus    = "http_status"
	OutcomeMalformed = "malformed"
	OutcomeTransport = "transport"
)

// Config holds ShipStation configuration.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration
	UseMock   bool // When true, uses mock API client
}

// Recorder receives one observation per rate call.
type Recorder interface {
	RecordCall(carrier, outcome string, seconds float64)
}

// Client is the ShipStation rate provider.
// It implements the shipper.RateProvider interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
	recorder  Recorder
}

// New creates a new ShipStation client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			APISecret: cfg.APISecret,
			Timeout:   cfg.Timeout,
		})
	}

	return NewWithAPIClient(cfg, apiClient, logger, tracer)
}

// NewWithAPIClient creates a new ShipStation client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	if tracer == nil {
		tracer = otel.Tracer("github.com/tournevent/rateshop/pkg/shipper/shipstation")
	}
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// WithRecorder attaches a call recorder (metrics).
func (c *Client) WithRecorder(r Recorder) *Client {
	c.recorder = r
	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return providerName
}

// GetRates requests rates for one (candidate, carrier) pair and keeps only
// the target services. Every failure is soft: it is logged here and returned
// as a skipped CallResult.
func (c *Client) GetRates(ctx context.Context, req *shipper.RateRequest) shipper.CallResult {
	ctx, span := c.tracer.Start(ctx, "shipstation.GetRates", trace.WithAttributes(
		attribute.String("carrier", req.Carrier.Code),
		attribute.String("candidate", req.Candidate.Label),
	))
	defer span.End()

	start := time.Now()
	services, err := c.apiClient.GetRates(ctx, toRatesRequest(req))
	elapsed := time.Since(start).Seconds()

	if err != nil {
		shipErr, outcome := classify(req.Carrier.Name, err)
		c.record(req.Carrier.Code, outcome, elapsed)
		span.RecordError(shipErr)
		span.SetStatus(codes.Error, outcome)

		msg := "Rate call failed, skipping carrier"
		if shipper.IsProviderInternal(shipErr) {
			msg = "Provider internal error, skipping carrier"
		}
		c.logger.Ctx(ctx).Warn(msg,
			zap.String("carrier", req.Carrier.Name),
			zap.String("label", req.Candidate.Label),
			zap.String("outcome", outcome),
			zap.Error(shipErr),
		)
		return shipper.Skip(req, shipErr)
	}

	quotes := c.toQuotes(ctx, req, services)
	c.record(req.Carrier.Code, OutcomeOK, elapsed)
	span.SetAttributes(attribute.Int("quotes", len(quotes)))
	return shipper.Ok(req, quotes)
}

func (c *Client) record(carrier, outcome string, seconds float64) {
	if c.recorder != nil {
		c.recorder.RecordCall(carrier, outcome, seconds)
	}
}

func (c *Client) toQuotes(ctx context.Context, req *shipper.RateRequest, services []Service) []shipper.RateQuote {
	quotes := make([]shipper.RateQuote, 0, len(services))
	for _, s := range services {
		if !shipper.IsTargetService(s.ServiceCode) {
			continue
		}
		price := s.Total()
		if price.IsNegative() {
			c.logger.Ctx(ctx).Debug("Dropping service with negative price",
				zap.String("carrier", req.Carrier.Name),
				zap.String("service_code", s.ServiceCode),
				zap.String("price", price.String()),
			)
			continue
		}
		quotes = append(quotes, shipper.RateQuote{
			Carrier: req.Carrier.Name,
			Service: s.ServiceName,
			Price:   price,
			Label:   req.Candidate.Label,
		})
	}
	return quotes
}

// ============================================================================
// Conversion helpers
// ============================================================================

func toRatesRequest(req *shipper.RateRequest) *RatesRequest {
	s := req.Shipment
	return &RatesRequest{
		CarrierCode:    req.Carrier.Code,
		FromPostalCode: s.OriginPostalCode,
		ToState:        s.DestinationState,
		ToCountry:      shipper.DefaultCountry,
		ToPostalCode:   req.Candidate.PostalCode,
		ToCity:         s.DestinationCity,
		Weight: Weight{
			Value: s.Weight,
			Units: string(shipper.WeightPounds),
		},
		Dimensions: Dimensions{
			Units:  string(shipper.DimensionInches),
			Length: s.Length,
			Width:  s.Width,
			Height: s.Height,
		},
		Confirmation: string(shipper.ConfirmationDelivery),
		Residential:  true,
	}
}

func classify(carrier string, err error) (*shipper.ShipperError, string) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusInternalServerError:
		return shipper.NewShipperError(carrier, shipper.CodeProviderInternal, "provider internal error").
			WithStatusCode(apiErr.StatusCode).
			WithCause(shipper.ErrProviderUnavailable), OutcomeInternal
	case errors.As(err, &apiErr):
		cause := error(apiErr)
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			cause = errors.Join(shipper.ErrAuthenticationFailed, apiErr)
		}
		return shipper.NewShipperError(carrier, shipper.CodeHTTPStatus, "unexpected response status").
			WithStatusCode(apiErr.StatusCode).
			WithCause(cause), OutcomeStatus
	case errors.Is(err, ErrDecode):
		return shipper.NewShipperError(carrier, shipper.CodeMalformed, "unreadable response").
			WithCause(errors.Join(shipper.ErrMalformedResponse, err)), OutcomeMalformed
	default:
		return shipper.NewShipperError(carrier, shipper.CodeTransport, "request failed").
			WithCause(err), OutcomeTransport
	}
}

var _ shipper.RateProvider = (*Client)(nil)
