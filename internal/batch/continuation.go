package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/tournevent/rateshop/internal/cursor"
	"github.com/tournevent/rateshop/internal/schedule"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultContinuationDelay is the pause between two invocations.
const DefaultContinuationDelay = 5 * time.Second

// CompletionMessage is sent to the notifier once the last row is done.
const CompletionMessage = "All rows have been rate-shopped and written."

// Outcome is the state an invocation leaves the job in.
type Outcome string

const (
	OutcomeScheduled Outcome = "scheduled"
	OutcomeDone      Outcome = "done"
	OutcomeFailed    Outcome = "failed"
)

// Continuation moves the marker after a batch and either arranges the next
// invocation or reports completion. The sheet is persisted before either, so
// a continuation never fires while the previous invocation is still writing.
type Continuation struct {
	cursor    *cursor.Manager
	scheduler schedule.Scheduler
	notifier  schedule.Notifier
	delay     time.Duration
	logger    *otelzap.Logger
	persist   func(ctx context.Context) error
}

// Advance clears the marker at the window start. With rows left, it marks
// End+1, persists, and replaces any pending continuation with exactly one
// new one. Otherwise it persists, notifies completion and cancels every
// pending continuation.
func (c *Continuation) Advance(ctx context.Context, w Window, last int, entry schedule.EntryPoint) (Outcome, error) {
	if err := c.cursor.Clear(ctx, w.Start); err != nil {
		return OutcomeFailed, err
	}

	if !w.HasMore(last) {
		return c.finish(ctx)
	}

	next := w.End + 1
	if err := c.cursor.Set(ctx, next); err != nil {
		return OutcomeFailed, err
	}
	if err := c.persist(ctx); err != nil {
		return OutcomeFailed, err
	}
	if err := c.scheduler.CancelAll(); err != nil {
		return OutcomeFailed, fmt.Errorf("cancelling pending continuations: %w", err)
	}
	if err := c.scheduler.ScheduleOnce(entry, c.delay); err != nil {
		return OutcomeFailed, fmt.Errorf("scheduling continuation: %w", err)
	}

	c.logger.Ctx(ctx).Info("Next batch scheduled",
		zap.Int("next_row", next),
		zap.Int("last_row", last),
		zap.Duration("delay", c.delay),
	)
	return OutcomeScheduled, nil
}

// Finish ends the run when there is nothing left to process, e.g. an empty
// dataset or a marker left past the last row.
func (c *Continuation) Finish(ctx context.Context) (Outcome, error) {
	if err := c.cursor.ClearAll(ctx); err != nil {
		return OutcomeFailed, err
	}
	return c.finish(ctx)
}

func (c *Continuation) finish(ctx context.Context) (Outcome, error) {
	if err := c.persist(ctx); err != nil {
		return OutcomeFailed, err
	}
	if err := c.notifier.NotifyCompletion(ctx, CompletionMessage); err != nil {
		c.logger.Ctx(ctx).Warn("Completion notification failed", zap.Error(err))
	}
	if err := c.scheduler.CancelAll(); err != nil {
		return OutcomeFailed, fmt.Errorf("cancelling pending continuations: %w", err)
	}
	return OutcomeDone, nil
}
