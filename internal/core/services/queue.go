package services

import (
	"fmt"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
	"github.com/plumeworks/plover-cli/internal/logger"
)

// Ensure QueueService implements the interface.
var _ driving.QueueService = (*QueueService)(nil)

// QueueService stores the ordered lists of pending messages inside the
// config document, under "queues.<list>".
type QueueService struct {
	store driven.ConfigStore
}

// NewQueueService creates a queue service backed by the given store.
func NewQueueService(store driven.ConfigStore) *QueueService {
	return &QueueService{store: store}
}

// Append canonicalizes every descriptor first; if any is invalid the whole
// batch fails and the queue is left unchanged. Valid batches are appended
// atomically in original order.
func (s *QueueService) Append(list string, raws ...any) error {
	msgs := make([]*domain.Message, 0, len(raws))
	for i, raw := range raws {
		msg, err := domain.Canonicalize(raw)
		if err != nil {
			return fmt.Errorf("message %d of %d: %w", i+1, len(raws), err)
		}
		msgs = append(msgs, msg)
	}

	key := queueKey(list)
	items := s.store.GetSlice(key)
	for _, msg := range msgs {
		items = append(items, msg.AsMap())
	}
	s.store.Set(key, items)
	logger.Debug("appended %d message(s) to queue %q (now %d)", len(msgs), listName(list), len(items))
	return nil
}

// Head returns the next message to post, or nil when the list is empty.
// Entries that no longer decode are dropped so one corrupt element cannot
// wedge the queue.
func (s *QueueService) Head(list string) *domain.Message {
	key := queueKey(list)
	items := s.store.GetSlice(key)
	for len(items) > 0 {
		msg, err := domain.Canonicalize(items[0])
		if err == nil {
			return msg
		}
		logger.Warn("dropping undecodable entry at head of queue %q: %v", listName(list), err)
		items = items[1:]
		s.store.Set(key, items)
	}
	return nil
}

// PopHead removes the head of the list.
func (s *QueueService) PopHead(list string) {
	key := queueKey(list)
	items := s.store.GetSlice(key)
	if len(items) == 0 {
		return
	}
	s.store.Set(key, items[1:])
}

// RequeueHeadToTail moves the head to the tail.
func (s *QueueService) RequeueHeadToTail(list string) {
	key := queueKey(list)
	items := s.store.GetSlice(key)
	if len(items) < 2 {
		return
	}
	rotated := make([]any, 0, len(items))
	rotated = append(rotated, items[1:]...)
	rotated = append(rotated, items[0])
	s.store.Set(key, rotated)
}

// Len returns the number of pending messages.
func (s *QueueService) Len(list string) int {
	return len(s.store.GetSlice(queueKey(list)))
}

// listName resolves the default list name.
func listName(list string) string {
	if list == "" {
		return driving.DefaultList
	}
	return list
}

// queueKey maps a list name to its config path.
func queueKey(list string) string {
	return "queues." + listName(list)
}
