// Package transport sends signed posting requests to the platform's REST
// endpoint and hands the raw response back to the core.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
	"github.com/plumeworks/plover-cli/internal/logger"
)

// postPath is the posting endpoint under the configured site.
const postPath = "/2/tweets"

// proactiveInterval throttles outbound posts client-side, well inside the
// platform's published write limits.
const proactiveInterval = 2 * time.Second

// Ensure Client implements the interface.
var _ driven.Transport = (*Client)(nil)

// Client posts messages to <site>/2/tweets with a proactive rate limit.
type Client struct {
	site      string
	userAgent string
	limiter   *rate.Limiter
}

// New creates a transport for the given API site. An empty site falls back
// to the default.
func New(site, version string) *Client {
	if site == "" {
		site = domain.DefaultSite
	}
	return &Client{
		site:      site,
		userAgent: "plover/" + version,
		limiter:   rate.NewLimiter(rate.Every(proactiveInterval), 1),
	}
}

// Send posts the message payload through the signer's client and returns
// the raw status and body. The rate limiter is waited on before every real
// send.
func (c *Client) Send(ctx context.Context, signer driven.Signer, msg *domain.Message) (*domain.APIResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	url := c.site + postPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	logger.Debug("POST %s: %s", url, payload)
	resp, err := signer.HTTPClient(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending post: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	logger.Debug("response %d: %s", resp.StatusCode, body)
	return &domain.APIResponse{StatusCode: resp.StatusCode, Body: body}, nil
}
