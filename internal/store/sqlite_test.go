package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/riverwood-projects/voice-agent/internal/conversation"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "transcripts.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndRecentTurns(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, user := range []string{"u1", "u2", "u3"} {
		turn := conversation.Turn{
			User:  user,
			Reply: "r" + user[1:],
			At:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.SaveTurn(ctx, turn); err != nil {
			t.Fatalf("SaveTurn(%q) failed: %v", user, err)
		}
	}

	turns, err := repo.RecentTurns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("Got %d turns, want 2", len(turns))
	}
	// Chronological order: the two newest, oldest of those first.
	if turns[0].User != "u2" || turns[1].User != "u3" {
		t.Errorf("Turns = [%q %q], want [u2 u3]", turns[0].User, turns[1].User)
	}
	if turns[1].Reply != "r3" {
		t.Errorf("Reply = %q, want r3", turns[1].Reply)
	}
	if turns[0].At.IsZero() {
		t.Error("Stored timestamp was lost")
	}
}

func TestSaveTurnFillsMissingTimestamp(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.SaveTurn(ctx, conversation.Turn{User: "hi", Reply: "hello"}); err != nil {
		t.Fatalf("SaveTurn failed: %v", err)
	}

	turns, err := repo.RecentTurns(ctx, 1)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 1 || turns[0].At.IsZero() {
		t.Errorf("Turn without timestamp stored as %+v, want a filled At", turns)
	}
}

func TestCountTurns(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	n, err := repo.CountTurns(ctx)
	if err != nil {
		t.Fatalf("CountTurns failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Empty archive count = %d, want 0", n)
	}

	for i := 0; i < 5; i++ {
		if err := repo.SaveTurn(ctx, conversation.Turn{User: "u", Reply: "r"}); err != nil {
			t.Fatalf("SaveTurn failed: %v", err)
		}
	}

	n, err = repo.CountTurns(ctx)
	if err != nil {
		t.Fatalf("CountTurns failed: %v", err)
	}
	if n != 5 {
		t.Errorf("Count = %d, want 5", n)
	}
}

func TestRecentTurnsEmptyArchive(t *testing.T) {
	repo := newTestStore(t)

	turns, err := repo.RecentTurns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentTurns failed: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("Got %d turns from an empty archive", len(turns))
	}
}

func TestPing(t *testing.T) {
	repo := newTestStore(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
