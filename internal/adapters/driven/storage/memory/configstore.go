// Package memory provides in-memory implementations of the driven storage
// ports, used by tests and by callers that want a throwaway store.
package memory

import (
	"strings"
	"sync"

	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// ConfigStore is an in-memory driven.ConfigStore. Save records its calls
// instead of writing anywhere, so tests can assert on persistence
// behaviour, including the preserve flag.
type ConfigStore struct {
	mu   sync.RWMutex
	data map[string]any

	// SaveCalls records the preserve argument of every Save call.
	SaveCalls []bool
}

// NewConfigStore creates an empty in-memory store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{data: make(map[string]any)}
}

// Get retrieves the value at a dotted path.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parent, last, ok := walk(s.data, key, false)
	if !ok {
		return nil, false
	}
	v, ok := parent[last]
	return v, ok
}

// GetString retrieves a string value at a dotted path.
func (s *ConfigStore) GetString(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// GetSlice retrieves a sequence value at a dotted path.
func (s *ConfigStore) GetSlice(key string) []any {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	seq, _ := v.([]any)
	return seq
}

// Set stores a value at a dotted path, creating intermediate tables.
func (s *ConfigStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, last, _ := walk(s.data, key, true)
	parent[last] = value
}

// Delete removes the value at a dotted path.
func (s *ConfigStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, last, ok := walk(s.data, key, false)
	if !ok {
		return
	}
	delete(parent, last)
}

// Save records the call and does nothing else.
func (s *ConfigStore) Save(preserve bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls = append(s.SaveCalls, preserve)
	return nil
}

// Path identifies the store in logs.
func (s *ConfigStore) Path() string { return "<memory>" }

// Close is a no-op.
func (s *ConfigStore) Close() error { return nil }

// walk resolves a dotted path to its parent table and final segment,
// optionally creating (and replacing non-table) intermediates.
func walk(data map[string]any, key string, create bool) (map[string]any, string, bool) {
	segments := strings.Split(key, ".")
	node := data
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg]
		if !ok {
			if !create {
				return nil, "", false
			}
			next := make(map[string]any)
			node[seg] = next
			node = next
			continue
		}
		table, ok := child.(map[string]any)
		if !ok {
			if !create {
				return nil, "", false
			}
			table = make(map[string]any)
			node[seg] = table
		}
		node = table
	}
	return node, segments[len(segments)-1], true
}
