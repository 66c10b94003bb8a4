package driving

import (
	"context"

	"github.com/plumeworks/plover-cli/internal/core/domain"
)

// PostOptions configures one PostMessages run.
type PostOptions struct {
	// Count is the number of successful posts to aim for. Defaults to 1.
	Count int

	// Retries is the budget for hard failures across the run. When it runs
	// out the remaining count is abandoned, which is not an error.
	Retries int

	// Account is the posting account. Empty means the configured default.
	Account string

	// List is the queue to drain. Empty means DefaultList.
	List string

	// Policy overrides the duplicate-handling policy for this run. Empty
	// means the configured default.
	Policy domain.DuplicatePolicy

	// NoPost simulates posting: no network call is made and a synthetic
	// success is returned for each head.
	NoPost bool
}

// Poster drives the posting protocol.
type Poster interface {
	// PostMessages runs the posting loop and returns the number of
	// messages actually posted. Configuration and registration errors
	// propagate; hard posting failures are consumed by the retry budget.
	PostMessages(ctx context.Context, opts PostOptions) (int, error)
}
