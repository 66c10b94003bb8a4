package driven

import (
	"context"
	"net/http"

	"github.com/plumeworks/plover-cli/internal/core/domain"
)

// Signer produces HTTP clients whose requests carry a valid OAuth1
// signature for one account.
type Signer interface {
	// HTTPClient returns a client that signs every request it sends.
	HTTPClient(ctx context.Context) *http.Client
}

// SignerFactory builds signers from a consumer credential and a stored
// access token. It is separate from Authorizer so posting never needs the
// interactive machinery.
type SignerFactory interface {
	Signer(consumer domain.ConsumerCredentials, token domain.AccessToken) Signer
}

// Authorizer runs the interactive out-of-band OAuth1 exchange: obtain a
// request token, direct the user to the authorization URL, collect the
// verifier PIN, and trade it for an access token.
type Authorizer interface {
	// Authorize returns the freshly granted token. A nil token with a nil
	// error means the user cancelled the exchange.
	Authorize(ctx context.Context, consumer domain.ConsumerCredentials) (*domain.AccessToken, error)
}
