// Package oauth implements request signing and the interactive PIN
// authorization flow on top of the OAuth1 protocol.
package oauth

import (
	"context"
	"net/http"

	"github.com/dghubble/oauth1"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
)

// Ensure SignerFactory implements the interface.
var _ driven.SignerFactory = (*SignerFactory)(nil)

// SignerFactory builds OAuth1 signers from a consumer credential and an
// access token. Construction is pure: no network traffic happens until the
// signed client is used.
type SignerFactory struct{}

// NewSignerFactory creates a signer factory.
func NewSignerFactory() *SignerFactory {
	return &SignerFactory{}
}

// Signer returns a signer for the token under the given consumer.
func (f *SignerFactory) Signer(consumer domain.ConsumerCredentials, token domain.AccessToken) driven.Signer {
	return &signer{
		config: oauth1.NewConfig(consumer.Key, consumer.Secret),
		token:  oauth1.NewToken(token.Token, token.Secret),
	}
}

// signer wraps an oauth1 config/token pair.
type signer struct {
	config *oauth1.Config
	token  *oauth1.Token
}

// HTTPClient returns a client whose transport signs every request.
func (s *signer) HTTPClient(ctx context.Context) *http.Client {
	return s.config.Client(ctx, s.token)
}
