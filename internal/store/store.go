// Package store provides the optional transcript archive. The archive is an
// operator-facing record of completed turns; the in-memory conversation log
// remains the only source of prompt context.
package store

import (
	"context"

	"github.com/riverwood-projects/voice-agent/internal/conversation"
)

// Repository defines the interface for persisting conversation transcripts.
type Repository interface {
	// SaveTurn appends one completed turn to the archive.
	SaveTurn(ctx context.Context, t conversation.Turn) error

	// RecentTurns retrieves the most recent turns in chronological order.
	RecentTurns(ctx context.Context, limit int) ([]conversation.Turn, error)

	// CountTurns returns the total number of archived turns.
	CountTurns(ctx context.Context) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
