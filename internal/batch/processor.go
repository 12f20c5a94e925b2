package batch

import (
	"context"

	"github.com/tournevent/rateshop/internal/sheet"
	"github.com/tournevent/rateshop/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Row statuses reported to metrics.
const (
	RowOK           = "ok"
	RowInvalid      = "invalid"
	RowWriteFailed  = "write_failed"
	RowNoRatesFound = "no_rates"
)

// Summary counts what happened to the rows of one window.
type Summary struct {
	Processed int
	Failed    int
	NoRates   int
}

// Processor rate-shops the rows of a window, one row at a time.
type Processor struct {
	rows     *sheet.Rows
	registry *shipper.Registry
	provider shipper.RateProvider
	logger   *otelzap.Logger
	tracer   trace.Tracer
	record   func(status string)
}

// Process visits every row of w in ascending order. A failing row is logged
// and counted; it never stops the rows after it. Cancelling ctx stops the
// loop before the next row.
func (p *Processor) Process(ctx context.Context, w Window) Summary {
	var s Summary
	for row := w.Start; row <= w.End; row++ {
		if ctx.Err() != nil {
			break
		}
		status := p.processRow(ctx, row)
		p.record(status)
		switch status {
		case RowOK:
			s.Processed++
		case RowNoRatesFound:
			s.Processed++
			s.NoRates++
		default:
			s.Failed++
		}
	}
	return s
}

func (p *Processor) processRow(ctx context.Context, row int) string {
	ctx, span := p.tracer.Start(ctx, "batch.processRow", trace.WithAttributes(attribute.Int("row", row)))
	defer span.End()
	log := p.logger.Ctx(ctx)

	req, err := p.rows.ReadShipment(ctx, row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, RowInvalid)
		log.Warn("Row is not a valid shipment, writing empty results", zap.Int("row", row), zap.Error(err))
		// Replace results left over from an earlier run.
		empty := shipper.Aggregate(nil, shipper.BuildCandidates(req))
		if werr := p.rows.WriteResult(ctx, row, empty, req.HasSecondary()); werr != nil {
			log.Error("Failed to write row results", zap.Int("row", row), zap.Error(werr))
		}
		return RowInvalid
	}

	req = shipper.Normalize(req)
	results := p.registry.Shop(ctx, p.provider, req)
	agg := shipper.Aggregate(shipper.Collect(results), shipper.BuildCandidates(req))

	skipped := 0
	for _, r := range results {
		if r.Skipped() {
			skipped++
		}
	}

	if err := p.rows.WriteResult(ctx, row, agg, req.HasSecondary()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, RowWriteFailed)
		log.Error("Failed to write row results", zap.Int("row", row), zap.Error(err))
		return RowWriteFailed
	}

	log.Info("Row processed",
		zap.Int("row", row),
		zap.Int("quotes", len(agg.Quotes)),
		zap.Int("calls", len(results)),
		zap.Int("skipped_calls", skipped),
		zap.String("best_primary", agg.Best[shipper.LabelPrimary].Price),
	)
	if len(agg.Quotes) == 0 {
		return RowNoRatesFound
	}
	return RowOK
}
