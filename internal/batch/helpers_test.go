package batch_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/rateshop/internal/batch"
	"github.com/tournevent/rateshop/internal/schedule"
	"github.com/tournevent/rateshop/internal/sheet"
	"github.com/tournevent/rateshop/internal/telemetry"
	"github.com/tournevent/rateshop/pkg/shipper"
	"github.com/tournevent/rateshop/pkg/shipper/mock"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// fakeScheduler records cancel/schedule commands instead of running timers.
type fakeScheduler struct {
	mu       sync.Mutex
	commands []string
	pending  []schedule.EntryPoint
}

func (s *fakeScheduler) ScheduleOnce(entry schedule.EntryPoint, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, fmt.Sprintf("schedule %s", delay))
	s.pending = append(s.pending, entry)
	return nil
}

func (s *fakeScheduler) CancelAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, "cancel")
	s.pending = nil
	return nil
}

// fire runs the single pending continuation, as the real scheduler would.
func (s *fakeScheduler) fire(t *testing.T) {
	t.Helper()
	s.mu.Lock()
	require.Len(t, s.pending, 1, "exactly one continuation should be pending")
	entry := s.pending[0]
	s.pending = nil
	s.mu.Unlock()
	entry(context.Background())
}

func (s *fakeScheduler) note(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, event)
}

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) NotifyCompletion(ctx context.Context, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

// failingStore fails writes to one row.
type failingStore struct {
	*sheet.MemoryStore
	failRow int
}

func (s *failingStore) WriteCell(ctx context.Context, row, col int, value string) error {
	if row == s.failRow && col != sheet.DefaultLayout().Marker {
		return errors.New("disk full")
	}
	return s.MemoryStore.WriteCell(ctx, row, col, value)
}

func shipmentRow(zip1, zip2 string) []string {
	return []string{"id", "30301", "CA", "US", zip1, zip2, "Los Angeles", "2", "10", "8", "4"}
}

// dataset builds a sheet with rows 2..last populated.
func dataset(last int) *sheet.MemoryStore {
	rows := [][]string{{"header"}}
	for r := 2; r <= last; r++ {
		rows = append(rows, shipmentRow(fmt.Sprintf("9%04d", r), ""))
	}
	return sheet.NewMemoryStore(rows)
}

type harness struct {
	job       *batch.Job
	store     sheet.Store
	provider  *mock.Client
	scheduler *fakeScheduler
	notifier  *fakeNotifier
	metrics   *telemetry.Metrics
}

func newHarness(store sheet.Store) *harness {
	h := &harness{
		store:     store,
		provider:  mock.New("test-provider"),
		scheduler: &fakeScheduler{},
		notifier:  &fakeNotifier{},
		metrics:   telemetry.NewMetrics(prometheus.NewRegistry()),
	}
	h.job = batch.NewJob(batch.Config{BatchSize: 10, Delay: 5 * time.Second}, batch.Deps{
		Store:     store,
		Layout:    sheet.DefaultLayout(),
		Registry:  shipper.DefaultRegistry(),
		Provider:  h.provider,
		Scheduler: h.scheduler,
		Notifier:  h.notifier,
		Logger:    otelzap.New(zap.NewNop()),
		Metrics:   h.metrics,
	})
	return h
}

func markerRows(t *testing.T, store sheet.Store) []int {
	t.Helper()
	ctx := context.Background()
	last, err := store.LastRow(ctx)
	require.NoError(t, err)
	var rows []int
	for r := 1; r <= last; r++ {
		v, _ := store.ReadCell(ctx, r, sheet.DefaultLayout().Marker)
		if v != "" {
			rows = append(rows, r)
		}
	}
	return rows
}

func cellAt(t *testing.T, store sheet.Store, row, col int) string {
	t.Helper()
	v, err := store.ReadCell(context.Background(), row, col)
	require.NoError(t, err)
	return v
}

// brokenStore cannot report its size.
type brokenStore struct {
	*sheet.MemoryStore
}

func (s *brokenStore) LastRow(ctx context.Context) (int, error) {
	return 0, errors.New("connection reset")
}

// flushStore reports every flush through onFlush.
type flushStore struct {
	*sheet.MemoryStore
	onFlush func()
	err     error
}

func (s *flushStore) Flush(ctx context.Context) error {
	s.onFlush()
	return s.err
}
