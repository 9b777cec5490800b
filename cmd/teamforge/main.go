// Command teamforge is the boundary-stable consumer of the engine: it
// decodes a roster JSON file, runs one solve, and re-encodes each
// publisher record as one JSON line on stdout - the line-delimited
// framing a network handler would put on a socket, without committing
// this repo to any particular transport.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gitrdm/teamforge/pkg/engine"
	"github.com/gitrdm/teamforge/pkg/publisher"
	"github.com/gitrdm/teamforge/pkg/roster"
	"github.com/gitrdm/teamforge/pkg/teamlog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "teamforge",
		Short: "Team-formation constraint solver",
	}
	root.AddCommand(newSolveCmd())
	return root
}

func newSolveCmd() *cobra.Command {
	var rosterPath string
	var maxTime time.Duration
	var logLevel string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one roster and stream the event log to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd.Context(), rosterPath, maxTime, logLevel)
		},
	}

	cmd.Flags().StringVar(&rosterPath, "roster", "", "path to the roster request JSON file (required)")
	cmd.Flags().DurationVar(&maxTime, "max-time", 0, "override the request's max_time budget (0 keeps the request's own value)")
	cmd.Flags().StringVar(&logLevel, "log-level", envOr("TEAMFORGE_LOG_LEVEL", "info"), "zerolog level: debug, info, warn, error")
	_ = cmd.MarkFlagRequired("roster")

	return cmd
}

// envOr reads an environment override, falling back to def - env vars are
// threaded straight through component config rather than via a dedicated
// env-parsing library.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func runSolve(ctx context.Context, rosterPath string, maxTimeOverride time.Duration, logLevel string) error {
	if rosterPath == "" {
		return fmt.Errorf("teamforge: --roster is required")
	}

	data, err := os.ReadFile(rosterPath)
	if err != nil {
		return fmt.Errorf("teamforge: reading roster file: %w", err)
	}

	var req roster.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("teamforge: decoding roster request: %w", err)
	}
	if maxTimeOverride > 0 {
		req.MaxTime = maxTimeOverride
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := teamlog.New(os.Stderr, logLevel)
	e := engine.New(logger, prometheus.DefaultRegisterer)

	sub := &jsonLineSubscriber{enc: json.NewEncoder(os.Stdout)}
	return e.Solve(ctx, req, sub)
}

// jsonLineSubscriber re-encodes each publisher record as one JSON line on
// stdout, tagged with a "type" discriminant so a downstream reader can
// dispatch without peeking at the shape (§6.2).
type jsonLineSubscriber struct {
	enc *json.Encoder
}

func (s *jsonLineSubscriber) Progress(rec publisher.ProgressRecord) {
	s.emit("progress", rec)
}

func (s *jsonLineSubscriber) Complete(rec publisher.CompleteRecord) {
	s.emit("complete", rec)
}

func (s *jsonLineSubscriber) Error(rec publisher.ErrorRecord) {
	s.emit("error", rec)
}

func (s *jsonLineSubscriber) emit(kind string, payload any) {
	line := struct {
		Type    string `json:"type"`
		Payload any    `json:"payload"`
	}{Type: kind, Payload: payload}
	if err := s.enc.Encode(line); err != nil {
		fmt.Fprintf(os.Stderr, "teamforge: encoding %s record: %v\n", kind, err)
	}
}
