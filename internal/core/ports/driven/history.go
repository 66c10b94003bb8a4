package driven

import (
	"context"

	"github.com/plumeworks/plover-cli/internal/core/domain"
)

// HistoryStore persists a record of successfully posted messages.
// Recording is best-effort: the poster treats a nil store as "history
// disabled" and never fails a post over a history error.
type HistoryStore interface {
	// Record stores one posted message.
	Record(ctx context.Context, rec domain.PostRecord) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]domain.PostRecord, error)

	// Close releases the underlying database.
	Close() error
}
