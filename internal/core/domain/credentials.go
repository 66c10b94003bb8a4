package domain

import "fmt"

// Default endpoints for the consumer configuration. The site hosts both the
// OAuth endpoints and the posting endpoint.
const (
	DefaultSite          = "https://api.twitter.com"
	DefaultAuthorizePath = "/oauth/authorize"
)

// ConsumerCredentials identifies the bot's registered application to the
// platform, together with the API site it talks to.
type ConsumerCredentials struct {
	Key           string
	Secret        string
	Site          string
	AuthorizePath string
}

// Validate reports whether the consumer configuration is complete enough to
// sign requests. All four fields are required.
func (c ConsumerCredentials) Validate() error {
	missing := ""
	switch {
	case c.Key == "":
		missing = "consumer key"
	case c.Secret == "":
		missing = "consumer secret"
	case c.Site == "":
		missing = "site"
	case c.AuthorizePath == "":
		missing = "authorize path"
	}
	if missing != "" {
		return fmt.Errorf("%w: %s is not set; run 'plover consumer <key> <secret> [site] [authorize-path]'",
			ErrIncompleteConfig, missing)
	}
	return nil
}

// AccessToken is the per-account OAuth token pair obtained through
// interactive authorization.
type AccessToken struct {
	Token  string
	Secret string
}

// IsUsable reports whether both members of the pair are present. A pair with
// either member missing cannot sign requests and counts as unregistered.
func (t AccessToken) IsUsable() bool {
	return t.Token != "" && t.Secret != ""
}
