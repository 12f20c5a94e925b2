package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rateshop/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SHIPSTATION_API_KEY", "key")
	t.Setenv("SHIPSTATION_API_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.ContinuationDelay)
	assert.Equal(t, "https://ssapi.shipstation.com", cfg.ShipStationBaseURL)
	assert.Equal(t, 30*time.Second, cfg.ShipStationTimeout)
	assert.Equal(t, config.BackendCSV, cfg.SheetBackend)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("CONTINUATION_DELAY", "1m")
	t.Setenv("SHEET_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/rates")
	t.Setenv("SHIPSTATION_USE_MOCK", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, time.Minute, cfg.ContinuationDelay)
	assert.Equal(t, "rate_sheet", cfg.SheetTable)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("BATCH_SIZE", "ten")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			ShipStationAPIKey:    "key",
			ShipStationAPISecret: "secret",
			BatchSize:            10,
			ContinuationDelay:    5 * time.Second,
			SheetBackend:         config.BackendCSV,
			SheetPath:            "rates.csv",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{"valid", func(c *config.Config) {}, ""},
		{"missing key", func(c *config.Config) { c.ShipStationAPIKey = "" }, "SHIPSTATION_API_KEY"},
		{"missing secret", func(c *config.Config) { c.ShipStationAPISecret = "" }, "SHIPSTATION_API_SECRET"},
		{"mock needs no credentials", func(c *config.Config) {
			c.ShipStationUseMock = true
			c.ShipStationAPIKey = ""
			c.ShipStationAPISecret = ""
		}, ""},
		{"zero batch size", func(c *config.Config) { c.BatchSize = 0 }, "BATCH_SIZE"},
		{"zero delay", func(c *config.Config) { c.ContinuationDelay = 0 }, "CONTINUATION_DELAY"},
		{"postgres without url", func(c *config.Config) {
			c.SheetBackend = config.BackendPostgres
			c.SheetTable = "rate_sheet"
		}, "DATABASE_URL"},
		{"unknown backend", func(c *config.Config) { c.SheetBackend = "excel" }, "SHEET_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := config.Config{SheetBackend: config.BackendCSV, SheetPath: "x.csv"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHIPSTATION_API_KEY")
	assert.Contains(t, err.Error(), "SHIPSTATION_API_SECRET")
	assert.Contains(t, err.Error(), "BATCH_SIZE")
}
