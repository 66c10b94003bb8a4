package file

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
	"github.com/plumeworks/plover-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ConfigStore = (*Store)(nil)

// Store is one view of a locked config file: the full document held in
// memory, mutated during the run, and flushed at most once by Save.
type Store struct {
	registry *Registry
	handle   *handle

	mu     sync.RWMutex
	data   map[string]any
	closed bool
}

// Get retrieves the value at a dotted path.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parent, last, ok := s.walk(key, false)
	if !ok {
		return nil, false
	}
	v, ok := parent[last]
	return v, ok
}

// GetString retrieves a string value at a dotted path.
func (s *Store) GetString(key string) string {
	v, ok := s.Get(key)
	if !ok {
		return ""
	}
	str, ok := v.(string)
	if !ok {
		return ""
	}
	return str
}

// GetSlice retrieves a sequence value at a dotted path.
func (s *Store) GetSlice(key string) []any {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	switch seq := v.(type) {
	case []any:
		return seq
	case []map[string]any:
		out := make([]any, len(seq))
		for i, m := range seq {
			out[i] = m
		}
		return out
	default:
		return nil
	}
}

// Set stores a value at a dotted path, creating intermediate tables.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, last, ok := s.walk(key, true)
	if !ok {
		// A path segment exists but is not a table; replace it.
		logger.Warn("config key %s overwrites a non-table value", key)
		parent, last, _ = s.forceWalk(key)
	}
	parent[last] = value
}

// Delete removes the value at a dotted path.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, last, ok := s.walk(key, false)
	if !ok {
		return
	}
	delete(parent, last)
}

// Save serializes the whole document and rewrites the file through the held
// lock. With preserve set, nothing is written.
func (s *Store) Save(preserve bool) error {
	if preserve {
		logger.Debug("preserve set, skipping config write for %s", s.Path())
		return nil
	}

	s.mu.RLock()
	raw, err := toml.Marshal(s.data)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return s.handle.rewrite(raw)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.handle.path
}

// Close releases this store's reference to the shared locked handle.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.registry.release(s.handle)
}

// walk resolves the dotted path to its parent table and final segment.
// With create set, missing intermediate tables are created. Returns ok =
// false when an intermediate segment exists but is not a table (or, without
// create, is missing). Caller must hold the lock.
func (s *Store) walk(key string, create bool) (map[string]any, string, bool) {
	segments := strings.Split(key, ".")
	node := s.data
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
			return nil, "", false
		}
		node = table
	}
	return node, segments[len(segments)-1], true
}

// forceWalk is walk with create semantics that also replaces non-table
// intermediate values. Caller must hold the lock.
func (s *Store) forceWalk(key string) (map[string]any, string, bool) {
	segments := strings.Split(key, ".")
	node := s.data
	for _, seg := range segments[:len(segments)-1] {
		table, ok := node[seg].(map[string]any)
		if !ok {
			table = make(map[string]any)
			node[seg] = table
		}
		node = table
	}
	return node, segments[len(segments)-1], true
}
