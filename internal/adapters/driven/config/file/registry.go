package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/logger"
)

// Lock acquisition polls once per second and gives up after lockAttempts
// tries, so a run blocked by another process fails fast instead of hanging.
const (
	lockAttempts = 10
	lockInterval = time.Second
)

// Registry maps canonical config paths to reference-counted open+locked
// handles, so every Store for the same path in one process shares a single
// advisory lock. Pass one Registry down from the entrypoint instead of
// relying on package-level state.
type Registry struct {
	mu      sync.Mutex
	handles map[string]*handle

	lockAttempts int
	lockInterval time.Duration
}

// handle is one open, exclusively locked config file.
type handle struct {
	path string
	file *os.File
	refs int

	// writeMu serializes rewrites through the locked descriptor.
	writeMu sync.Mutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handles:      make(map[string]*handle),
		lockAttempts: lockAttempts,
		lockInterval: lockInterval,
	}
}

// Open returns a Store for the config file at path, creating the file if it
// does not exist. The first Open for a path acquires the exclusive lock
// with the bounded wait; later Opens share the locked handle and re-read
// the current file content.
func (r *Registry) Open(path string) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	r.mu.Lock()
	h, ok := r.handles[abs]
	if !ok {
		h, err = r.openAndLock(abs)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.handles[abs] = h
	}
	h.refs++
	r.mu.Unlock()

	data, err := readDocument(h.file)
	if err != nil {
		// A corrupt or non-table document is tolerated by starting empty.
		logger.Warn("config %s unreadable, starting empty: %v", abs, err)
		data = make(map[string]any)
	}

	return &Store{registry: r, handle: h, data: data}, nil
}

// release drops one reference; the last reference unlocks and closes.
func (r *Registry) release(h *handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	h.refs--
	if h.refs > 0 {
		return nil
	}
	delete(r.handles, h.path)
	if err := syscall.Flock(int(h.file.Fd()), syscall.LOCK_UN); err != nil {
		h.file.Close()
		return fmt.Errorf("unlocking config file: %w", err)
	}
	return h.file.Close()
}

// openAndLock opens (creating if needed) the config file and acquires the
// exclusive advisory lock with the bounded poll.
func (r *Registry) openAndLock(path string) (*handle, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}

	var lockErr error
	for attempt := 0; attempt < r.lockAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(r.lockInterval)
		}
		lockErr = syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if lockErr == nil {
			logger.Debug("locked config file %s", path)
			return &handle{path: path, file: f}, nil
		}
		logger.Debug("config file %s locked, attempt %d/%d", path, attempt+1, r.lockAttempts)
	}
	f.Close()
	return nil, fmt.Errorf("%w: %s (held elsewhere: %v)", domain.ErrConfigLocked, path, lockErr)
}

// readDocument parses the current file content. Anything that is not a
// table is an error; the caller substitutes an empty table.
func readDocument(f *os.File) (map[string]any, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return make(map[string]any), nil
	}

	var data map[string]any
	if err := toml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}

// rewrite replaces the file content through the locked descriptor: seek,
// truncate, write. No rename is involved because a rename would replace the
// inode the flock is held on.
func (h *handle) rewrite(raw []byte) error {
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if _, err := h.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seeking config file: %w", err)
	}
	if err := h.file.Truncate(0); err != nil {
		return fmt.Errorf("truncating config file: %w", err)
	}
	if _, err := h.file.Write(raw); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return h.file.Sync()
}
