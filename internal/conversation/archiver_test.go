package conversation

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingSink struct {
	mu    sync.Mutex
	saved []Turn
}

func (s *recordingSink) SaveTurn(_ context.Context, t Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, t)
	return nil
}

func (s *recordingSink) turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.saved))
	copy(out, s.saved)
	return out
}

type blockingSink struct {
	recordingSink
	release chan struct{}
}

func (s *blockingSink) SaveTurn(ctx context.Context, t Turn) error {
	<-s.release
	return s.recordingSink.SaveTurn(ctx, t)
}

func TestArchiverSavesInOrder(t *testing.T) {
	sink := &recordingSink{}
	a := NewArchiver(sink, 16, nil)

	a.Record(Turn{User: "u1"})
	a.Record(Turn{User: "u2"})
	a.Record(Turn{User: "u3"})
	a.Close()

	got := sink.turns()
	if len(got) != 3 {
		t.Fatalf("Expected 3 archived turns, got %d", len(got))
	}
	for i, want := range []string{"u1", "u2", "u3"} {
		if got[i].User != want {
			t.Errorf("turn %d: got %q, want %q", i, got[i].User, want)
		}
	}
}

func TestArchiverDropsWithoutBlocking(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	a := NewArchiver(sink, 1, nil)

	a.Record(Turn{User: "u1"})
	// Give the worker time to pick up u1 and block inside SaveTurn.
	time.Sleep(50 * time.Millisecond)

	a.Record(Turn{User: "u2"}) // fills the queue
	done := make(chan struct{})
	go func() {
		a.Record(Turn{User: "u3"}) // queue full: must drop, not block
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Record blocked on a full queue")
	}

	close(sink.release)
	a.Close()

	if got := len(sink.turns()); got != 2 {
		t.Errorf("Expected 2 archived turns (one dropped), got %d", got)
	}
}

func TestArchiverRecordAfterClose(t *testing.T) {
	sink := &recordingSink{}
	a := NewArchiver(sink, 4, nil)

	a.Record(Turn{User: "u1"})
	a.Close()

	// Connection handlers can outlive server shutdown; a late turn is
	// dropped, never a panic.
	a.Record(Turn{User: "late"})
	a.Close()

	got := sink.turns()
	if len(got) != 1 || got[0].User != "u1" {
		t.Errorf("Archived turns = %v, want only u1", got)
	}
}
