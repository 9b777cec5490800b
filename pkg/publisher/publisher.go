// Package publisher adapts search-driver incumbent callbacks into the
// ordered, lossy-if-needed progress stream of §4.5/§5: a capacity-1
// latest-wins buffer for progress records, plus a dedicated, never-dropped
// terminal slot for the final complete or error record.
package publisher

import (
	"time"

	"github.com/gitrdm/teamforge/pkg/roster"
)

// ProgressRecord is one intermediate-solution summary (§6.2).
type ProgressRecord struct {
	SolutionCount  int           `json:"solution_count"`
	ObjectiveValue int           `json:"objective_value"`
	WallTime       time.Duration `json:"wall_time"`
	NumConflicts   int64         `json:"num_conflicts"`
	Message        string        `json:"message"`
}

// ParticipantResult carries one participant's id and its team number. The
// participant's attribute values are not echoed.
type ParticipantResult struct {
	ParticipantID string `json:"id"`
	TeamNumber    int    `json:"team_number"`
}

// Stats summarizes a completed solve.
type Stats struct {
	SolutionCount   int           `json:"solution_count"`
	WallTime        time.Duration `json:"wall_time"`
	NumTeams        int           `json:"num_teams"`
	NumParticipants int           `json:"num_participants"`
}

// CompleteRecord is the terminal success record (§6.2).
type CompleteRecord struct {
	Participants []ParticipantResult `json:"participants"`
	Stats        Stats               `json:"stats"`
}

// ErrorRecord is the terminal failure record (§6.2).
type ErrorRecord struct {
	Kind    roster.Kind `json:"kind"`
	Message string      `json:"message"`
}

// Subscriber receives the three record kinds in solve order (§6.2).
type Subscriber interface {
	Progress(ProgressRecord)
	Complete(CompleteRecord)
	Error(ErrorRecord)
}

// Publisher buffers progress records with latest-wins coalescing and
// delivers exactly one terminal record. It must be constructed fresh per
// solve - like the model it is not reused across solves (§3, §5).
type Publisher struct {
	progressCh chan ProgressRecord
	terminalCh chan terminal
}

type terminal struct {
	complete *CompleteRecord
	errRec   *ErrorRecord
}

// New creates a Publisher ready to accept one solve's worth of records.
func New() *Publisher {
	return &Publisher{
		progressCh: make(chan ProgressRecord, 1),
		terminalCh: make(chan terminal, 1),
	}
}

// Progress publishes one incumbent summary. Non-blocking: if the buffer
// already holds an unread record, it is dropped in favor of the new one
// (§5: "the older progress record is overwritten").
func (p *Publisher) Progress(rec ProgressRecord) {
	for {
		select {
		case p.progressCh <- rec:
			return
		default:
			select {
			case <-p.progressCh:
			default:
			}
		}
	}
}

// Complete publishes the terminal success record. Exactly one of Complete
// or Error must be called per solve.
func (p *Publisher) Complete(rec CompleteRecord) {
	p.terminalCh <- terminal{complete: &rec}
}

// Error publishes the terminal failure record.
func (p *Publisher) Error(rec ErrorRecord) {
	p.terminalCh <- terminal{errRec: &rec}
}

// Run drains progress and the terminal record to sub, in order, until the
// terminal record arrives, then returns. It is meant to run on the
// subscriber's own goroutine, concurrently with the solver thread driving
// Progress/Complete/Error (§5: "Each solve runs in a worker thread distinct
// from the caller's thread so that the publisher's subscriber... can run
// concurrently with the solver").
func (p *Publisher) Run(sub Subscriber) {
	for {
		select {
		case rec := <-p.progressCh:
			sub.Progress(rec)
		case term := <-p.terminalCh:
			// Drain any last progress record that raced with the terminal
			// send before delivering it, preserving solve order.
			select {
			case rec := <-p.progressCh:
				sub.Progress(rec)
			default:
			}
			if term.complete != nil {
				sub.Complete(*term.complete)
			} else {
				sub.Error(*term.errRec)
			}
			return
		}
	}
}
