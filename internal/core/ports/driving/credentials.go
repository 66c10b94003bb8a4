package driving

import (
	"context"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
)

// SignerOptions controls how CredentialService.Signer resolves a signer.
type SignerOptions struct {
	// AllowInteractive permits the interactive authorization exchange when
	// no token is stored. Posting always runs with this off.
	AllowInteractive bool

	// ForceReauth discards any stored token and re-runs authorization.
	ForceReauth bool
}

// CredentialService manages the application's consumer credentials and the
// per-account access tokens.
type CredentialService interface {
	// Consumer returns the app credentials, failing with
	// domain.ErrIncompleteConfig when any required field is missing.
	Consumer() (domain.ConsumerCredentials, error)

	// SetConsumer stores the app credentials. Empty site or authorizePath
	// fall back to the defaults.
	SetConsumer(key, secret, site, authorizePath string) error

	// IsRegistered reports whether a usable token pair is stored for the
	// account.
	IsRegistered(name string) bool

	// Signer returns a request signer for the account. A nil signer with a
	// nil error means the user cancelled interactive authorization.
	Signer(ctx context.Context, name string, opts SignerOptions) (driven.Signer, error)

	// DefaultAccount returns the configured default account name, or empty.
	DefaultAccount() string

	// SetDefault records the default account. The account must be
	// registered.
	SetDefault(name string) error
}
