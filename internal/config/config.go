package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Sheet backends.
const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the job.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// ShipStation
	ShipStationAPIKey    string        `envconfig:"SHIPSTATION_API_KEY"`
	ShipStationAPISecret string        `envconfig:"SHIPSTATION_API_SECRET"`
	ShipStationBaseURL   string        `envconfig:"SHIPSTATION_BASE_URL" default:"https://ssapi.shipstation.com"`
	ShipStationUseMock   bool          `envconfig:"SHIPSTATION_USE_MOCK" default:"false"`
	ShipStationTimeout   time.Duration `envconfig:"SHIPSTATION_TIMEOUT" default:"30s"`

	// Batching
	BatchSize         int           `envconfig:"BATCH_SIZE" default:"10"`
	ContinuationDelay time.Duration `envconfig:"CONTINUATION_DELAY" default:"5s"`

	// Sheet
	SheetBackend string `envconfig:"SHEET_BACKEND" default:"csv"`
	SheetPath    string `envconfig:"SHEET_PATH" default:"rates.csv"`
	DatabaseURL  string `envconfig:"DATABASE_URL"`
	SheetTable   string `envconfig:"SHEET_TABLE" default:"rate_sheet"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"rateshop"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	if !c.ShipStationUseMock {
		if c.ShipStationAPIKey == "" {
			errs = append(errs, errors.New("SHIPSTATION_API_KEY is required"))
		}
		if c.ShipStationAPISecret == "" {
			errs = append(errs, errors.New("SHIPSTATION_API_SECRET is required"))
		}
	}

	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize))
	}
	if c.ContinuationDelay <= 0 {
		errs = append(errs, fmt.Errorf("CONTINUATION_DELAY must be positive, got %s", c.ContinuationDelay))
	}

	switch c.SheetBackend {
	case BackendCSV:
		if c.SheetPath == "" {
			errs = append(errs, errors.New("SHEET_PATH is required for the csv backend"))
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
		if c.SheetTable == "" {
			errs = append(errs, errors.New("SHEET_TABLE is required for the postgres backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SHEET_BACKEND %q", c.SheetBackend))
	}

	return errors.Join(errs...)
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("shipstation.mock", c.ShipStationUseMock),
		attribute.String("sheet.backend", c.SheetBackend),
		attribute.Int("batch.size", c.BatchSize),
	}
}
