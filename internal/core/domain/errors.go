package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrConfigLocked indicates another process holds the exclusive lock on
	// the configuration file and the bounded wait ran out.
	ErrConfigLocked = errors.New("configuration file is locked")

	// ErrIncompleteConfig indicates the consumer configuration is missing a
	// required field.
	ErrIncompleteConfig = errors.New("configuration incomplete")

	// ErrNotRegistered indicates no access token is stored for an account
	// and the operation does not allow interactive authorization.
	ErrNotRegistered = errors.New("access token not registered")

	// ErrInvalidMessage indicates a message descriptor could not be
	// canonicalized. A load batch containing one fails as a whole.
	ErrInvalidMessage = errors.New("invalid message format")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthCancelled indicates the user abandoned the interactive
	// authorization exchange.
	ErrAuthCancelled = errors.New("authorization cancelled")
)

// IsConfigurationError reports whether err belongs to the configuration
// error class. Configuration errors abort the mode invocation and force the
// final persistence to run with the preserve flag set, so partial state is
// never written back.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfigLocked) ||
		errors.Is(err, ErrIncompleteConfig) ||
		errors.Is(err, ErrNotRegistered) ||
		errors.Is(err, ErrInvalidInput)
}
