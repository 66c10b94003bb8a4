package services

import (
	"context"
	"net/http"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
)

// fakeSigner is an inert driven.Signer for tests that never hit the network.
type fakeSigner struct {
	consumer domain.ConsumerCredentials
	token    domain.AccessToken
}

func (s *fakeSigner) HTTPClient(_ context.Context) *http.Client {
	return http.DefaultClient
}

// fakeSignerFactory records the credentials each signer was built with.
type fakeSignerFactory struct {
	built []*fakeSigner
}

func (f *fakeSignerFactory) Signer(consumer domain.ConsumerCredentials, token domain.AccessToken) driven.Signer {
	s := &fakeSigner{consumer: consumer, token: token}
	f.built = append(f.built, s)
	return s
}

// fakeAuthorizer plays the interactive exchange without a terminal.
type fakeAuthorizer struct {
	token *domain.AccessToken // nil simulates user cancellation
	err   error
	calls int
}

func (a *fakeAuthorizer) Authorize(_ context.Context, _ domain.ConsumerCredentials) (*domain.AccessToken, error) {
	a.calls++
	if a.err != nil {
		return nil, a.err
	}
	return a.token, nil
}

// fakeTransport returns scripted responses in order, repeating the last one.
type fakeTransport struct {
	responses []*domain.APIResponse
	err       error
	sent      []*domain.Message
}

func (t *fakeTransport) Send(_ context.Context, _ driven.Signer, msg *domain.Message) (*domain.APIResponse, error) {
	t.sent = append(t.sent, msg)
	if t.err != nil {
		return nil, t.err
	}
	idx := len(t.sent) - 1
	if idx >= len(t.responses) {
		idx = len(t.responses) - 1
	}
	return t.responses[idx], nil
}

// fakeHistory collects records in memory.
type fakeHistory struct {
	records []domain.PostRecord
	err     error
}

func (h *fakeHistory) Record(_ context.Context, rec domain.PostRecord) error {
	if h.err != nil {
		return h.err
	}
	h.records = append(h.records, rec)
	return nil
}

func (h *fakeHistory) List(_ context.Context, _ int) ([]domain.PostRecord, error) {
	return h.records, nil
}

func (h *fakeHistory) Close() error { return nil }

// successBody builds the platform's accepted-post response body.
func successBody(id, text string) []byte {
	return []byte(`{"data":{"id":"` + id + `","text":"` + text + `"}}`)
}

// duplicateBody is the platform's duplicate-content rejection.
func duplicateBody() []byte {
	return []byte(`{"detail":"` + domain.DuplicateContentDetail + `"}`)
}
