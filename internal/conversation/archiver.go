package conversation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// TurnSink persists completed turns. Implemented by the transcript store.
type TurnSink interface {
	SaveTurn(ctx context.Context, t Turn) error
}

const saveTimeout = 5 * time.Second

// Archiver forwards completed turns to a TurnSink from a single worker
// goroutine so that archiving never blocks the reply path. When the queue is
// full the turn is dropped rather than delaying a response.
type Archiver struct {
	queue  chan Turn
	done   chan struct{}
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// NewArchiver starts the archive worker. queueSize <= 0 selects a default.
func NewArchiver(sink TurnSink, queueSize int, logger *slog.Logger) *Archiver {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Archiver{
		queue:  make(chan Turn, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}

	go func() {
		defer close(a.done)
		for t := range a.queue {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			if err := sink.SaveTurn(ctx, t); err != nil {
				a.logger.Warn("failed to archive turn", "error", err)
			}
			cancel()
		}
	}()

	return a
}

// Record queues a turn for archiving without blocking. After Close it is a
// no-op: WebSocket read loops are hijacked from the HTTP server and can still
// be finishing a turn while shutdown tears the archiver down.
func (a *Archiver) Record(t Turn) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		a.logger.Debug("transcript archive closed, dropping turn")
		return
	}
	select {
	case a.queue <- t:
	default:
		a.logger.Warn("transcript archive queue full, dropping turn")
	}
}

// Close drains the queue and stops the worker. Closing twice is a no-op.
func (a *Archiver) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
}
