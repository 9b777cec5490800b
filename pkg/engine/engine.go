// Package engine is the orchestration facade: normalizer -> compiler ->
// modelbuilder -> searchdriver -> publisher, wired the way §2's leaf-first
// dependency order prescribes. It is the only package a caller (the CLI,
// or an eventual REST surface) needs to import.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/gitrdm/teamforge/internal/csp"
	"github.com/gitrdm/teamforge/pkg/compiler"
	"github.com/gitrdm/teamforge/pkg/metrics"
	"github.com/gitrdm/teamforge/pkg/modelbuilder"
	"github.com/gitrdm/teamforge/pkg/normalizer"
	"github.com/gitrdm/teamforge/pkg/publisher"
	"github.com/gitrdm/teamforge/pkg/roster"
	"github.com/gitrdm/teamforge/pkg/searchdriver"
)

// compileTimeout bounds model construction, separate from max_time which
// budgets only solver wall time (§5: "If compilation exceeds a reasonable
// bound (implementer-defined, e.g., 30 s)...").
const compileTimeout = 30 * time.Second

// Engine runs one team-formation solve per call. It holds no state across
// solves (§3: "The engine is not stateful across solves").
type Engine struct {
	logger  zerolog.Logger
	metrics *metrics.Solver
}

// New creates an Engine logging under logger and recording metrics against
// reg (pass prometheus.DefaultRegisterer for the process-wide registry).
func New(logger zerolog.Logger, reg prometheus.Registerer) *Engine {
	return &Engine{logger: logger, metrics: metrics.NewSolver(reg)}
}

// Solve runs one solve to completion, publishing progress and exactly one
// terminal record to sub, then returns. The returned error is non-nil only
// for a programmer error in the engine itself; solve-level failures are
// reported through sub.Error, not the return value, so a caller streaming
// records over a transport can treat Solve's return as "the stream ended".
func (e *Engine) Solve(ctx context.Context, req roster.Request, sub publisher.Subscriber) error {
	runID := uuid.New().String()
	log := e.logger.With().Str("run_id", runID).Logger()

	pub := publisher.New()
	pumpDone := make(chan struct{})
	go func() {
		pub.Run(sub)
		close(pumpDone)
	}()
	defer func() { <-pumpDone }()

	if err := req.Validate(); err != nil {
		log.Warn().Err(err).Msg("request failed validation")
		pub.Error(publisher.ErrorRecord{Kind: roster.KindOf(err), Message: err.Error()})
		return nil
	}

	compileStart := time.Now()

	sizing, err := roster.DeriveTeamSizing(len(req.Participants), req.TargetTeamSize, req.LessThanTarget)
	if err != nil {
		log.Warn().Err(err).Msg("team sizing unsolvable")
		pub.Error(publisher.ErrorRecord{Kind: roster.KindOf(err), Message: err.Error()})
		return nil
	}

	builder, err := modelbuilder.New(len(req.Participants), sizing)
	if err != nil {
		log.Error().Err(err).Msg("model builder construction failed")
		pub.Error(publisher.ErrorRecord{Kind: roster.KindCompileError, Message: err.Error()})
		return nil
	}

	norm := normalizer.New(req.Participants)
	for _, c := range req.Constraints {
		if _, err := compiler.Compile(builder, c, norm); err != nil {
			log.Warn().Err(err).Str("attribute", c.Attribute).Msg("constraint compilation failed")
			pub.Error(publisher.ErrorRecord{Kind: roster.KindOf(err), Message: err.Error()})
			return nil
		}
		if time.Since(compileStart) > compileTimeout {
			log.Warn().Dur("elapsed", time.Since(compileStart)).Msg("compile timeout exceeded")
			pub.Error(publisher.ErrorRecord{Kind: roster.KindCompileTimeout, Message: "model compilation exceeded the time budget"})
			return nil
		}
	}

	objectiveVarID := builder.Finalize()
	if err := builder.Model().Validate(); err != nil {
		log.Error().Err(err).Msg("compiled model invalid")
		pub.Error(publisher.ErrorRecord{Kind: roster.KindCompileError, Message: err.Error()})
		return nil
	}

	driver := searchdriver.New(log, e.metrics)
	result, _ := driver.Solve(ctx, builder.Model(), objectiveVarID, req.MaxTime, func(inc csp.Incumbent) {
		pub.Progress(publisher.ProgressRecord{
			SolutionCount:  inc.SolutionIndex,
			ObjectiveValue: inc.Objective,
			WallTime:       inc.WallTime,
			NumConflicts:   inc.Conflicts,
			Message:        "incumbent found",
		})
	})

	switch result.Status {
	case csp.Optimal, csp.Feasible:
		participants := make([]publisher.ParticipantResult, len(req.Participants))
		for i, p := range req.Participants {
			team := result.Incumbent.Assignment[builder.X(i)]
			participants[i] = publisher.ParticipantResult{ParticipantID: p.ID, TeamNumber: team}
		}
		pub.Complete(publisher.CompleteRecord{
			Participants: participants,
			Stats: publisher.Stats{
				SolutionCount:   result.Incumbent.SolutionIndex,
				WallTime:        result.Incumbent.WallTime,
				NumTeams:        builder.K(),
				NumParticipants: len(req.Participants),
			},
		})
	case csp.Infeasible:
		pub.Error(publisher.ErrorRecord{Kind: roster.KindInfeasible, Message: "no assignment satisfies the hard constraints"})
	case csp.NoSolution:
		if ctx.Err() != nil {
			pub.Error(publisher.ErrorRecord{Kind: roster.KindCancelled, Message: "solve cancelled before any incumbent was found"})
		} else {
			pub.Error(publisher.ErrorRecord{Kind: roster.KindNoSolution, Message: "no incumbent found before the deadline"})
		}
	default:
		pub.Error(publisher.ErrorRecord{Kind: roster.KindNoSolution, Message: fmt.Sprintf("unexpected solver status %s", result.Status)})
	}
	return nil
}
