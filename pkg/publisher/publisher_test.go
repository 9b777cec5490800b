package publisher

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSubscriber struct {
	mu        sync.Mutex
	progress  []ProgressRecord
	complete  *CompleteRecord
	errRecord *ErrorRecord
}

func (s *recordingSubscriber) Progress(r ProgressRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, r)
}

func (s *recordingSubscriber) Complete(r CompleteRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complete = &r
}

func (s *recordingSubscriber) Error(r ErrorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errRecord = &r
}

func TestPublisherDeliversTerminalAfterDraining(t *testing.T) {
	p := New()
	sub := &recordingSubscriber{}

	done := make(chan struct{})
	go func() {
		p.Run(sub)
		close(done)
	}()

	p.Progress(ProgressRecord{SolutionCount: 1, ObjectiveValue: 10})
	p.Complete(CompleteRecord{Stats: Stats{SolutionCount: 1, NumTeams: 2}})

	<-done
	require.NotNil(t, sub.complete)
	require.Equal(t, 2, sub.complete.Stats.NumTeams)
}

func TestPublisherCoalescesProgressUnderBackpressure(t *testing.T) {
	p := New()
	// No reader yet: publish several progress records back to back. Only
	// the latest should survive in the buffer.
	for i := 1; i <= 5; i++ {
		p.Progress(ProgressRecord{SolutionCount: i})
	}
	sub := &recordingSubscriber{}
	done := make(chan struct{})
	go func() {
		p.Run(sub)
		close(done)
	}()
	p.Error(ErrorRecord{Message: "no incumbent"})
	<-done

	require.LessOrEqual(t, len(sub.progress), 1)
	require.NotNil(t, sub.errRecord)
}
