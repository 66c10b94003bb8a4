package driving

import (
	"github.com/plumeworks/plover-cli/internal/core/domain"
)

// DefaultList is the queue used when no list name is given.
const DefaultList = "default"

// QueueService manages the ordered, durable lists of pending messages.
type QueueService interface {
	// Append canonicalizes every descriptor and appends them in order.
	// If any descriptor is invalid the whole batch fails and the queue is
	// left unchanged.
	Append(list string, raws ...any) error

	// Head returns the next message to post, or nil if the list is empty.
	Head(list string) *domain.Message

	// PopHead removes the head. A no-op on an empty list.
	PopHead(list string)

	// RequeueHeadToTail moves the head to the tail. A no-op on an empty
	// list.
	RequeueHeadToTail(list string)

	// Len returns the number of pending messages in the list.
	Len(list string) int
}
