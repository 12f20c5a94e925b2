package graphql

import (
	"context"
	"errors"
	"time"

	"github.com/tournevent/rateshop/internal/batch"
	"github.com/tournevent/rateshop/internal/telemetry"
	"github.com/tournevent/rateshop/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Job is the batch job as seen by the API.
type Job interface {
	Run(ctx context.Context) (*batch.Report, error)
	Status(ctx context.Context) (batch.Status, error)
}

// Resolver is the root resolver for the GraphQL schema.
// It holds dependencies needed by all resolvers.
type Resolver struct {
	Job      Job
	Registry *shipper.Registry
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics
}

// NewResolver creates a new resolver with the given dependencies.
func NewResolver(job Job, registry *shipper.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics) *Resolver {
	return &Resolver{
		Job:      job,
		Registry: registry,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Query returns the query resolver.
func (r *Resolver) Query() *QueryResolver { return &QueryResolver{r} }

// Mutation returns the mutation resolver.
func (r *Resolver) Mutation() *MutationResolver { return &MutationResolver{r} }

// QueryResolver resolves the Query type.
type QueryResolver struct{ *Resolver }

// Health is the liveness field.
func (q *QueryResolver) Health(ctx context.Context) (bool, error) {
	return true, nil
}

// Status reports the last row and the current marker row.
func (q *QueryResolver) Status(ctx context.Context) (*Status, error) {
	start := time.Now()
	st, err := q.Job.Status(ctx)
	q.record("status", err, start)
	if err != nil {
		q.Logger.Ctx(ctx).Error("Status query failed", zap.Error(err))
		return nil, err
	}
	return &Status{
		LastRow:   st.LastRow,
		MarkerRow: st.MarkerRow,
		Resumable: st.MarkerRow != 0,
	}, nil
}

// Carriers lists the shopped carriers in enumeration order.
func (q *QueryResolver) Carriers(ctx context.Context) ([]*Carrier, error) {
	all := q.Registry.All()
	out := make([]*Carrier, 0, len(all))
	for _, c := range all {
		out = append(out, &Carrier{Code: c.Code, Name: c.Name})
	}
	return out, nil
}

// Carrier looks up one carrier by its ShipStation code.
func (q *QueryResolver) Carrier(ctx context.Context, code string) (*Carrier, error) {
	c, err := q.Registry.Get(code)
	if err != nil {
		return nil, err
	}
	return &Carrier{Code: c.Code, Name: c.Name}, nil
}

// MutationResolver resolves the Mutation type.
type MutationResolver struct{ *Resolver }

// Run rate-shops one batch now. The invocation is detached from the request
// so a disconnecting client does not cancel it.
func (m *MutationResolver) Run(ctx context.Context) (*RunReport, error) {
	start := time.Now()
	report, err := m.Job.Run(context.WithoutCancel(ctx))
	m.record("run", err, start)

	log := m.Logger.Ctx(ctx)
	switch {
	case errors.Is(err, batch.ErrInvocationInProgress):
		log.Warn("Manual run rejected", zap.Error(err))
		return nil, err
	case err != nil:
		log.Error("Manual run failed", zap.Error(err))
		return nil, err
	}

	log.Info("Manual run finished",
		zap.String("invocation_id", report.InvocationID),
		zap.String("outcome", string(report.Outcome)),
	)
	return &RunReport{
		InvocationID: report.InvocationID,
		StartRow:     report.Window.Start,
		EndRow:       report.Window.End,
		LastRow:      report.LastRow,
		Processed:    report.Summary.Processed,
		Failed:       report.Summary.Failed,
		NoRates:      report.Summary.NoRates,
		Outcome:      string(report.Outcome),
	}, nil
}

func (r *Resolver) record(operation string, err error, start time.Time) {
	if r.Metrics == nil {
		return
	}
	status := "success"
	switch {
	case errors.Is(err, batch.ErrInvocationInProgress):
		status = "conflict"
	case err != nil:
		status = "error"
	}
	r.Metrics.RecordRequest(operation, status, time.Since(start).Seconds())
}

// errorCode is the extensions code reported for a resolver error.
func errorCode(err error) string {
	switch {
	case errors.Is(err, batch.ErrInvocationInProgress):
		return "INVOCATION_IN_PROGRESS"
	case errors.Is(err, shipper.ErrCarrierNotFound):
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}
