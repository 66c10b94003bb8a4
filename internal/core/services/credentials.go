package services

import (
	"context"
	"fmt"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
	"github.com/plumeworks/plover-cli/internal/logger"
)

// Ensure CredentialService implements the interface.
var _ driving.CredentialService = (*CredentialService)(nil)

// CredentialService manages the consumer credentials and per-account
// access tokens stored in the config document.
type CredentialService struct {
	store   driven.ConfigStore
	signers driven.SignerFactory
	auth    driven.Authorizer // nil when interactive authorization is unavailable
}

// NewCredentialService creates a credential service. auth may be nil for
// contexts that never authorize interactively (posting does not).
func NewCredentialService(store driven.ConfigStore, signers driven.SignerFactory, auth driven.Authorizer) *CredentialService {
	return &CredentialService{store: store, signers: signers, auth: auth}
}

// Consumer returns the app credentials, failing when any required field is
// missing. The error tells the operator how to supply them.
func (s *CredentialService) Consumer() (domain.ConsumerCredentials, error) {
	cc := domain.ConsumerCredentials{
		Key:           s.store.GetString("consumer.key"),
		Secret:        s.store.GetString("consumer.secret"),
		Site:          s.store.GetString("consumer.site"),
		AuthorizePath: s.store.GetString("consumer.authorize_path"),
	}
	if err := cc.Validate(); err != nil {
		return domain.ConsumerCredentials{}, err
	}
	return cc, nil
}

// SetConsumer stores the app credentials, applying the default site and
// authorize path when they are not given.
func (s *CredentialService) SetConsumer(key, secret, site, authorizePath string) error {
	if key == "" || secret == "" {
		return fmt.Errorf("%w: consumer key and secret are both required", domain.ErrInvalidInput)
	}
	if site == "" {
		site = domain.DefaultSite
	}
	if authorizePath == "" {
		authorizePath = domain.DefaultAuthorizePath
	}
	s.store.Set("consumer.key", key)
	s.store.Set("consumer.secret", secret)
	s.store.Set("consumer.site", site)
	s.store.Set("consumer.authorize_path", authorizePath)
	return nil
}

// IsRegistered reports whether a usable token pair is stored for name.
func (s *CredentialService) IsRegistered(name string) bool {
	return s.storedToken(name).IsUsable()
}

// Signer resolves a request signer for the account.
//
// A stored token (unless ForceReauth) yields a signer immediately. With
// AllowInteractive, a missing token triggers the authorization exchange and
// the fresh token is stored; a cancelled exchange returns (nil, nil).
// Without AllowInteractive a missing token is a registration error naming
// the bootstrap command.
func (s *CredentialService) Signer(ctx context.Context, name string, opts driving.SignerOptions) (driven.Signer, error) {
	if name == "" {
		name = s.DefaultAccount()
	}
	if name == "" {
		return nil, fmt.Errorf("%w: no account given and no default set; run 'plover default <name>'", domain.ErrInvalidInput)
	}

	consumer, err := s.Consumer()
	if err != nil {
		return nil, err
	}

	if tok := s.storedToken(name); tok.IsUsable() && !opts.ForceReauth {
		return s.signers.Signer(consumer, tok), nil
	}

	if !opts.AllowInteractive || s.auth == nil {
		return nil, fmt.Errorf("%w for account %q; run 'plover add %s'", domain.ErrNotRegistered, name, name)
	}

	tok, err := s.auth.Authorize(ctx, consumer)
	if err != nil {
		return nil, fmt.Errorf("authorizing %q: %w", name, err)
	}
	if tok == nil {
		logger.Debug("authorization for %q cancelled by user", name)
		return nil, nil
	}

	s.store.Set("users."+name+".token", tok.Token)
	s.store.Set("users."+name+".secret", tok.Secret)
	return s.signers.Signer(consumer, *tok), nil
}

// DefaultAccount returns the configured default account name, or empty.
func (s *CredentialService) DefaultAccount() string {
	return s.store.GetString("login")
}

// SetDefault records name as the default account.
func (s *CredentialService) SetDefault(name string) error {
	if !s.IsRegistered(name) {
		return fmt.Errorf("%w for account %q; run 'plover add %s'", domain.ErrNotRegistered, name, name)
	}
	s.store.Set("login", name)
	return nil
}

// storedToken reads the token pair under "users.<name>".
func (s *CredentialService) storedToken(name string) domain.AccessToken {
	return domain.AccessToken{
		Token:  s.store.GetString("users." + name + ".token"),
		Secret: s.store.GetString("users." + name + ".secret"),
	}
}
