package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/teamforge/pkg/publisher"
	"github.com/gitrdm/teamforge/pkg/roster"
	"github.com/gitrdm/teamforge/pkg/teamlog"
)

type recordingSubscriber struct {
	mu       sync.Mutex
	complete *publisher.CompleteRecord
	errRec   *publisher.ErrorRecord
}

func (s *recordingSubscriber) Progress(publisher.ProgressRecord) {}

func (s *recordingSubscriber) Complete(r publisher.CompleteRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete = &r
}

func (s *recordingSubscriber) Error(r publisher.ErrorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errRec = &r
}

func participant(id, dept string) roster.Participant {
	return roster.Participant{ID: id, Attributes: map[string]roster.AttrValue{
		"dept": {Scalar: scalarPtr(roster.NewScalarValue(dept))},
	}}
}

func scalarPtr(v roster.ScalarValue) *roster.ScalarValue { return &v }

func TestEngineSolveCompletesSixParticipantRoster(t *testing.T) {
	req := roster.Request{
		Participants: []roster.Participant{
			participant("p1", "eng"), participant("p2", "eng"), participant("p3", "sales"),
			participant("p4", "sales"), participant("p5", "eng"), participant("p6", "sales"),
		},
		Constraints:    []roster.ConstraintSpec{{Attribute: "dept", Kind: roster.Cluster, Weight: 1.0}},
		TargetTeamSize: 3,
		MaxTime:        5 * time.Second,
	}

	e := New(teamlog.New(nil, "error"), prometheus.NewRegistry())
	sub := &recordingSubscriber{}
	require.NoError(t, e.Solve(context.Background(), req, sub))

	require.Nil(t, sub.errRec)
	require.NotNil(t, sub.complete)
	require.Len(t, sub.complete.Participants, 6)
	require.Equal(t, 2, sub.complete.Stats.NumTeams)
	seen := make(map[string]bool, 6)
	for _, p := range sub.complete.Participants {
		require.GreaterOrEqual(t, p.TeamNumber, 0)
		require.Less(t, p.TeamNumber, 2)
		seen[p.ParticipantID] = true
	}
	require.Len(t, seen, 6)
}

func TestEngineSolveReportsBadRequest(t *testing.T) {
	req := roster.Request{
		Participants:   []roster.Participant{participant("p1", "eng"), participant("p2", "eng")},
		TargetTeamSize: 3,
		MaxTime:        time.Second,
	}

	e := New(teamlog.New(nil, "error"), prometheus.NewRegistry())
	sub := &recordingSubscriber{}
	require.NoError(t, e.Solve(context.Background(), req, sub))

	require.Nil(t, sub.complete)
	require.NotNil(t, sub.errRec)
	require.Equal(t, roster.KindBadRequest, sub.errRec.Kind)
}

func TestEngineSolveReportsUnsolvableSize(t *testing.T) {
	req := roster.Request{
		Participants: []roster.Participant{
			participant("p1", "eng"), participant("p2", "eng"), participant("p3", "eng"),
			participant("p4", "eng"), participant("p5", "eng"),
		},
		TargetTeamSize: 4,
		MaxTime:        time.Second,
	}

	e := New(teamlog.New(nil, "error"), prometheus.NewRegistry())
	sub := &recordingSubscriber{}
	require.NoError(t, e.Solve(context.Background(), req, sub))

	require.Nil(t, sub.complete)
	require.NotNil(t, sub.errRec)
	require.Equal(t, roster.KindUnsolvableSize, sub.errRec.Kind)
}
