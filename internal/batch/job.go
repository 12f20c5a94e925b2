package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/rateshop/internal/cursor"
	"github.com/tournevent/rateshop/internal/schedule"
	"github.com/tournevent/rateshop/internal/sheet"
	"github.com/tournevent/rateshop/internal/telemetry"
	"github.com/tournevent/rateshop/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrInvocationInProgress is returned when an invocation is already running.
var ErrInvocationInProgress = errors.New("invocation already in progress")

// Config holds job tuning.
type Config struct {
	BatchSize int
	Delay     time.Duration
}

// Deps are the collaborators of a Job. Metrics, Tracer and OnFailure are
// optional.
type Deps struct {
	Store     sheet.Store
	Layout    sheet.Layout
	Registry  *shipper.Registry
	Provider  shipper.RateProvider
	Scheduler schedule.Scheduler
	Notifier  schedule.Notifier
	Logger    *otelzap.Logger
	Metrics   *telemetry.Metrics
	Tracer    trace.Tracer
	// OnFailure is called by Invoke when an invocation fails.
	OnFailure func(err error)
}

// Report describes one finished invocation.
type Report struct {
	InvocationID string
	Window       Window
	LastRow      int
	Summary      Summary
	Outcome      Outcome
}

// Status is the resumption state of the dataset.
type Status struct {
	LastRow   int
	MarkerRow int // 0 when no marker is set
}

// Job is the batch-resumable rate-shopping job.
type Job struct {
	cfg          Config
	store        sheet.Store
	cursor       *cursor.Manager
	processor    *Processor
	continuation *Continuation
	logger       *otelzap.Logger
	metrics      *telemetry.Metrics
	tracer       trace.Tracer
	onFailure    func(err error)

	mu sync.Mutex
}

// NewJob wires a job from its collaborators.
func NewJob(cfg Config, deps Deps) *Job {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultContinuationDelay
	}
	if deps.Registry == nil {
		deps.Registry = shipper.DefaultRegistry()
	}
	if deps.Tracer == nil {
		deps.Tracer = otel.Tracer("github.com/tournevent/rateshop/internal/batch")
	}

	cur := cursor.New(deps.Store, deps.Layout)
	j := &Job{
		cfg:     cfg,
		store:   deps.Store,
		cursor:  cur,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		tracer:  deps.Tracer,

		onFailure: deps.OnFailure,
	}
	j.processor = &Processor{
		rows:     sheet.NewRows(deps.Store, deps.Layout),
		registry: deps.Registry,
		provider: deps.Provider,
		logger:   deps.Logger,
		tracer:   deps.Tracer,
		record:   j.recordRow,
	}
	j.continuation = &Continuation{
		cursor:    cur,
		scheduler: deps.Scheduler,
		notifier:  deps.Notifier,
		delay:     cfg.Delay,
		logger:    deps.Logger,
		persist:   j.flush,
	}
	return j
}

// Invoke is the scheduler entry point: one Run with errors logged.
func (j *Job) Invoke(ctx context.Context) {
	_, err := j.Run(ctx)
	if err == nil {
		return
	}
	if errors.Is(err, ErrInvocationInProgress) {
		j.logger.Ctx(ctx).Warn("Invocation skipped", zap.Error(err))
		return
	}
	j.logger.Ctx(ctx).Error("Invocation failed", zap.Error(err))
	if j.onFailure != nil {
		j.onFailure(err)
	}
}

// Run processes one batch starting at the marker (or the first data row)
// and then advances or clears the marker.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	if !j.mu.TryLock() {
		return nil, ErrInvocationInProgress
	}
	defer j.mu.Unlock()

	report := &Report{InvocationID: uuid.New().String()}
	ctx, span := j.tracer.Start(ctx, "batch.Run", trace.WithAttributes(
		attribute.String("invocation_id", report.InvocationID),
	))
	defer span.End()
	log := j.logger.Ctx(ctx)
	id := zap.String("invocation_id", report.InvocationID)

	outcome, err := j.run(ctx, report)
	report.Outcome = outcome

	if err != nil {
		// Keep the rows written before the failure.
		if ferr := j.flush(context.WithoutCancel(ctx)); ferr != nil {
			err = errors.Join(err, ferr)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "invocation failed")
		j.recordInvocation(OutcomeFailed, 0)
		return report, err
	}

	next := 0
	if report.Outcome == OutcomeScheduled {
		next = report.Window.End + 1
	}
	j.recordInvocation(report.Outcome, next)

	log.Info("Invocation finished",
		id,
		zap.Int("start_row", report.Window.Start),
		zap.Int("end_row", report.Window.End),
		zap.Int("last_row", report.LastRow),
		zap.Int("processed", report.Summary.Processed),
		zap.Int("failed", report.Summary.Failed),
		zap.String("outcome", string(report.Outcome)),
	)
	return report, nil
}

func (j *Job) run(ctx context.Context, report *Report) (Outcome, error) {
	log := j.logger.Ctx(ctx)
	id := zap.String("invocation_id", report.InvocationID)

	last, err := j.store.LastRow(ctx)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("reading last row: %w", err)
	}
	report.LastRow = last

	start, found, err := j.cursor.FindStart(ctx)
	if err != nil {
		return OutcomeFailed, err
	}
	if !found {
		start = j.cursor.FirstRow()
	}

	w, err := NewWindow(start, last, j.cfg.BatchSize)
	if errors.Is(err, ErrEmptyWindow) {
		log.Info("Nothing to process", id, zap.Int("start_row", start), zap.Int("last_row", last))
		return j.continuation.Finish(ctx)
	}
	if err != nil {
		return OutcomeFailed, err
	}
	report.Window = w

	log.Info("Processing batch",
		id,
		zap.Int("start_row", w.Start),
		zap.Int("end_row", w.End),
		zap.Int("last_row", last),
		zap.Bool("resumed", found),
	)

	report.Summary = j.processor.Process(ctx, w)
	if err := ctx.Err(); err != nil {
		return OutcomeFailed, fmt.Errorf("batch interrupted, resuming at row %d: %w", w.Start, err)
	}
	return j.continuation.Advance(ctx, w, last, j.Invoke)
}

// Status reports the last row and the current marker row.
func (j *Job) Status(ctx context.Context) (Status, error) {
	last, err := j.store.LastRow(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("reading last row: %w", err)
	}
	row, _, err := j.cursor.FindStart(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{LastRow: last, MarkerRow: row}, nil
}

func (j *Job) flush(ctx context.Context) error {
	f, ok := j.store.(sheet.Flusher)
	if !ok {
		return nil
	}
	if err := f.Flush(ctx); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	return nil
}

func (j *Job) recordRow(status string) {
	if j.metrics != nil {
		j.metrics.RecordRow(status)
	}
}

func (j *Job) recordInvocation(outcome Outcome, next int) {
	if j.metrics != nil {
		j.metrics.RecordInvocation(string(outcome), next)
	}
}
