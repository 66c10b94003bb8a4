package oauth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dghubble/oauth1"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
)

// OAuth1 token endpoints live at fixed paths under the consumer's site;
// only the authorize path is configurable.
const (
	requestTokenPath = "/oauth/request_token"
	accessTokenPath  = "/oauth/access_token"

	// oobCallback selects the out-of-band (PIN) flow instead of a
	// redirect callback.
	oobCallback = "oob"
)

// Ensure PinAuthorizer implements the interface.
var _ driven.Authorizer = (*PinAuthorizer)(nil)

// PinAuthorizer runs the out-of-band OAuth1 exchange: it obtains a request
// token, prints the authorization URL for the user to open in a browser,
// reads the verifier PIN, and trades it for an access token.
type PinAuthorizer struct {
	in  io.Reader
	out io.Writer
}

// NewPinAuthorizer creates an authorizer prompting on stdin/stdout.
func NewPinAuthorizer() *PinAuthorizer {
	return &PinAuthorizer{in: os.Stdin, out: os.Stdout}
}

// NewPinAuthorizerIO creates an authorizer with explicit streams. Useful
// for testing.
func NewPinAuthorizerIO(in io.Reader, out io.Writer) *PinAuthorizer {
	return &PinAuthorizer{in: in, out: out}
}

// Authorize drives the PIN exchange. An empty PIN cancels the exchange and
// returns (nil, nil).
func (a *PinAuthorizer) Authorize(_ context.Context, consumer domain.ConsumerCredentials) (*domain.AccessToken, error) {
	config := &oauth1.Config{
		ConsumerKey:    consumer.Key,
		ConsumerSecret: consumer.Secret,
		CallbackURL:    oobCallback,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: consumer.Site + requestTokenPath,
			AuthorizeURL:    consumer.Site + consumer.AuthorizePath,
			AccessTokenURL:  consumer.Site + accessTokenPath,
		},
	}

	requestToken, requestSecret, err := config.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("obtaining request token: %w", err)
	}

	authURL, err := config.AuthorizationURL(requestToken)
	if err != nil {
		return nil, fmt.Errorf("building authorization URL: %w", err)
	}

	fmt.Fprintf(a.out, "Open this URL in a browser and authorize the application:\n\n  %s\n\n", authURL)
	fmt.Fprint(a.out, "Enter the PIN shown after authorizing (empty to cancel): ")

	pin, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && pin == "" {
		return nil, fmt.Errorf("reading PIN: %w", err)
	}
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil, nil
	}

	accessToken, accessSecret, err := config.AccessToken(requestToken, requestSecret, pin)
	if err != nil {
		return nil, fmt.Errorf("exchanging PIN for access token: %w", err)
	}
	return &domain.AccessToken{Token: accessToken, Secret: accessSecret}, nil
}
