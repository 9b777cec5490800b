// Package searchdriver invokes the CP engine on a frozen model with a
// wall-clock deadline, observes each new incumbent, and reports the final
// outcome. It adds the ambient observability the compiler and model
// builder deliberately skip: a zerolog-scoped log per solve and an
// OpenTelemetry span plus Prometheus counters around it.
package searchdriver

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/metrics"
)

var tracer = otel.Tracer("github.com/gitrdm/teamforge/pkg/searchdriver")

// Driver wraps internal/csp.Solve with the §4.4 incumbent-callback contract
// plus tracing and metrics.
type Driver struct {
	logger  zerolog.Logger
	metrics *metrics.Solver
}

// New creates a Driver that logs under the given scoped logger and records
// to m (pass metrics.NewSolver(prometheus.DefaultRegisterer) for the
// process-wide registry, or a fresh instance per test).
func New(logger zerolog.Logger, m *metrics.Solver) *Driver {
	return &Driver{logger: logger.With().Str("component", "searchdriver").Logger(), metrics: m}
}

// Result is the outcome of one solve.
type Result struct {
	Status    csp.Status
	Incumbent csp.Incumbent
}

// Solve runs the search. onIncumbent is invoked synchronously for every
// improving incumbent the underlying engine proves, in strictly increasing
// solution_index order (§4.4); it should not block for long, since the
// solver's progress is gated on it returning.
func (d *Driver) Solve(ctx context.Context, model *csp.Model, objectiveVarID int, maxTime time.Duration, onIncumbent func(csp.Incumbent)) (Result, error) {
	ctx, span := tracer.Start(ctx, "searchdriver.Solve", trace.WithAttributes(
		attribute.Int("teamforge.num_vars", model.NumVars()),
		attribute.String("teamforge.max_time", maxTime.String()),
	))
	defer span.End()

	start := time.Now()
	d.logger.Info().Dur("max_time", maxTime).Msg("solve starting")

	opts := csp.Options{
		TimeLimit: maxTime,
		OnIncumbent: func(inc csp.Incumbent) bool {
			if d.metrics != nil {
				d.metrics.IncumbentsTotal.Inc()
			}
			d.logger.Debug().
				Int("solution_index", inc.SolutionIndex).
				Int("objective", inc.Objective).
				Dur("wall_time", inc.WallTime).
				Int64("conflicts", inc.Conflicts).
				Msg("incumbent found")
			onIncumbent(inc)
			return true
		},
	}

	status, incumbent, err := csp.Solve(ctx, model, objectiveVarID, true, opts)
	elapsed := time.Since(start)
	if d.metrics != nil {
		d.metrics.SolveDuration.Observe(elapsed.Seconds())
		d.metrics.SolvesTotal.WithLabelValues(status.String()).Inc()
	}

	if err != nil {
		span.RecordError(err)
		d.logger.Error().Err(err).Dur("elapsed", elapsed).Msg("solve failed")
		return Result{Status: status, Incumbent: incumbent}, err
	}

	d.logger.Info().
		Str("status", status.String()).
		Dur("elapsed", elapsed).
		Int("objective", incumbent.Objective).
		Msg("solve finished")
	return Result{Status: status, Incumbent: incumbent}, nil
}
