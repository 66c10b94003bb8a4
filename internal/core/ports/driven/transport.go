package driven

import (
	"context"

	"github.com/plumeworks/plover-cli/internal/core/domain"
)

// Transport sends one signed posting request and returns the raw platform
// response. Interpretation of the body (success, duplicate rejection, hard
// failure) is the poster's job, not the transport's.
type Transport interface {
	// Send posts the message payload through the signer's client. A non-nil
	// error means the call itself failed (network, context cancellation);
	// HTTP-level failures come back as a response with the raw body.
	Send(ctx context.Context, signer Signer, msg *domain.Message) (*domain.APIResponse, error)
}
