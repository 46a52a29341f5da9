// Package conversation keeps the in-memory record of recent chat turns.
package conversation

import (
	"sync"
	"time"
)

// DefaultCap bounds the log to the ten most recent turns.
const DefaultCap = 10

// Turn is one user-utterance/reply pair in conversation order.
type Turn struct {
	User  string    `json:"user"`
	Reply string    `json:"ai"`
	At    time.Time `json:"at"`
}

// Log is a bounded, ordered record of turns. A single instance is shared by
// every connection, so all mutation goes through one lock.
type Log struct {
	mu    sync.Mutex
	turns []Turn
	cap   int
}

// NewLog creates an empty log with the default capacity.
func NewLog() *Log {
	return NewLogWithCap(DefaultCap)
}

// NewLogWithCap creates an empty log bounded at n turns.
func NewLogWithCap(n int) *Log {
	if n <= 0 {
		n = DefaultCap
	}
	return &Log{cap: n}
}

// Append records a turn, evicting the oldest turns while the bound is
// exceeded.
func (l *Log) Append(t Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, t)
	for len(l.turns) > l.cap {
		l.turns = l.turns[1:]
	}
}

// Snapshot returns an ordered copy of the full log.
func (l *Log) Snapshot() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Recent returns the last n turns in chronological order.
func (l *Log) Recent(n int) []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.turns) {
		n = len(l.turns)
	}
	out := make([]Turn, n)
	copy(out, l.turns[len(l.turns)-n:])
	return out
}

// Len reports the current number of turns.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}

// Reset clears the log. Resetting an empty log is a no-op.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}
