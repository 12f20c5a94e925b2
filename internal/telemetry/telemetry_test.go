package telemetry_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rateshop/internal/telemetry"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, telemetry.ParseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := telemetry.NewLogger("debug", "rateshop")
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestMetrics_Record(t *testing.T) {
	m := telemetry.NewMetrics(prometheus.NewRegistry())

	m.RecordCall("fedex", "ok", 0.2)
	m.RecordCall("fedex", "ok", 0.3)
	m.RecordCall("ups", "provider_internal", 0.1)
	m.RecordRow("ok")
	m.RecordInvocation("scheduled", 12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("fedex", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderCalls.WithLabelValues("ups", "provider_internal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsProcessed.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Invocations.WithLabelValues("scheduled")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.CursorRow))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.NewMetrics(prometheus.NewRegistry())
		telemetry.NewMetrics(prometheus.NewRegistry())
	})
}
