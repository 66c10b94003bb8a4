package driven

// ConfigStore is the persistent key-value document backing all durable
// state: consumer credentials, per-account access tokens, message queues,
// and run defaults.
//
// Keys are dotted paths into a nested document ("consumer.key",
// "users.alice.token", "queues.default"). Mutations are in-memory only;
// the whole document is flushed at most once per run via Save. The
// implementation holds an exclusive advisory lock on the backing file for
// the lifetime of the store.
type ConfigStore interface {
	// Get retrieves the value at a dotted path.
	// Returns the value and whether the path exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value at a dotted path.
	// Returns empty string if the path is absent or not a string.
	GetString(key string) string

	// GetSlice retrieves a sequence value at a dotted path.
	// Returns nil if the path is absent or not a sequence.
	GetSlice(key string) []any

	// Set stores a value at a dotted path, creating intermediate tables.
	// The change is in-memory until Save.
	Set(key string, value any)

	// Delete removes the value at a dotted path. Absent paths are a no-op.
	Delete(key string)

	// Save flushes the whole document to disk through the held lock.
	// When preserve is true no write occurs; in-memory changes for this
	// run are dropped on Close.
	Save(preserve bool) error

	// Path returns the backing file path.
	Path() string

	// Close releases this reference to the shared handle. The lock is
	// dropped when the last reference closes.
	Close() error
}
