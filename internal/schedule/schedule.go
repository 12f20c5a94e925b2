// Package schedule holds the collaborators that re-invoke the job and
// announce its completion.
package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// EntryPoint is the zero-argument job invocation a scheduler triggers.
type EntryPoint func(ctx context.Context)

// Scheduler triggers continuations.
type Scheduler interface {
	// ScheduleOnce runs entry once after delay.
	ScheduleOnce(entry EntryPoint, delay time.Duration) error
	// CancelAll drops every pending continuation.
	CancelAll() error
}

// Notifier announces that the whole dataset has been processed.
type Notifier interface {
	NotifyCompletion(ctx context.Context, message string) error
}

// TimerScheduler runs continuations in-process with time.AfterFunc.
type TimerScheduler struct {
	ctx    context.Context
	logger *otelzap.Logger

	mu      sync.Mutex
	nextID  int
	pending map[int]*time.Timer
	wg      sync.WaitGroup
}

// NewTimerScheduler creates a scheduler whose entries run with ctx.
func NewTimerScheduler(ctx context.Context, logger *otelzap.Logger) *TimerScheduler {
	return &TimerScheduler{
		ctx:     ctx,
		logger:  logger,
		pending: make(map[int]*time.Timer),
	}
}

// ScheduleOnce arms a one-shot timer for entry.
func (s *TimerScheduler) ScheduleOnce(entry EntryPoint, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.wg.Add(1)
	s.pending[id] = time.AfterFunc(delay, func() {
		defer s.wg.Done()
		s.mu.Lock()
		_, ok := s.pending[id]
		delete(s.pending, id)
		s.mu.Unlock()
		if !ok || s.ctx.Err() != nil {
			return
		}
		entry(s.ctx)
	})

	s.logger.Debug("Continuation scheduled", zap.Duration("delay", delay), zap.Int("pending", len(s.pending)))
	return nil
}

// CancelAll stops every pending timer.
func (s *TimerScheduler) CancelAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.pending {
		if t.Stop() {
			s.wg.Done()
		}
		delete(s.pending, id)
	}
	return nil
}

// Pending returns the number of armed continuations.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Wait blocks until every fired continuation has returned.
func (s *TimerScheduler) Wait() {
	s.wg.Wait()
}

// LogNotifier reports completion through the logger and, when set, by
// closing Done.
type LogNotifier struct {
	logger *otelzap.Logger
	once   sync.Once
	done   chan struct{}
}

// NewLogNotifier creates a notifier that logs the completion message.
func NewLogNotifier(logger *otelzap.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
		done:   make(chan struct{}),
	}
}

// NotifyCompletion logs message and releases Done waiters.
func (n *LogNotifier) NotifyCompletion(ctx context.Context, message string) error {
	n.logger.Ctx(ctx).Info(message)
	n.once.Do(func() { close(n.done) })
	return nil
}

// Done is closed after the first completion notification.
func (n *LogNotifier) Done() <-chan struct{} {
	return n.done
}

var (
	_ Scheduler = (*TimerScheduler)(nil)
	_ Notifier  = (*LogNotifier)(nil)
)
