package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plumeworks/plover-cli/internal/adapters/driven/storage/memory"
	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
	"github.com/plumeworks/plover-cli/internal/runlog"
)

// posterFixture wires a Poster against in-memory collaborators with one
// registered account set as the default.
type posterFixture struct {
	store     *memory.ConfigStore
	queue     *QueueService
	transport *fakeTransport
	history   *fakeHistory
	log       *runlog.RunLog
	poster    *Poster
}

func newPosterFixture(t *testing.T, transport *fakeTransport) *posterFixture {
	t.Helper()

	store := storeWithConsumer()
	registerAccount(store, "alice")
	store.Set("login", "alice")

	queue := NewQueueService(store)
	creds := NewCredentialService(store, &fakeSignerFactory{}, nil)
	history := &fakeHistory{}
	log := runlog.New("post")
	log.SetOutput(io.Discard)

	return &posterFixture{
		store:     store,
		queue:     queue,
		transport: transport,
		history:   history,
		log:       log,
		poster:    NewPoster(store, queue, creds, transport, history, log),
	}
}

func (f *posterFixture) enqueue(t *testing.T, texts ...string) {
	t.Helper()
	raws := make([]any, len(texts))
	for i, txt := range texts {
		raws[i] = txt
	}
	require.NoError(t, f.queue.Append("", raws...))
}

func (f *posterFixture) remaining() []string {
	var out []string
	for f.queue.Len("") > 0 {
		out = append(out, f.queue.Head("").Text)
		f.queue.PopHead("")
	}
	return out
}

func TestPoster_PostMessages_Success(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 201, Body: successBody("1", "hello")},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "hello")

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.Zero(t, f.queue.Len(""))
	require.Len(t, f.history.records, 1)
	assert.Equal(t, "alice", f.history.records[0].Account)
	assert.Equal(t, "hello", f.history.records[0].Text)
	assert.Contains(t, f.log.Lines(), "posted: hello")
}

func TestPoster_PostMessages_Count(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 201, Body: successBody("1", "a")},
		{StatusCode: 201, Body: successBody("2", "b")},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "a", "b", "c")

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{Count: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, posted)
	assert.Equal(t, []string{"c"}, f.remaining())
}

func TestPoster_PostMessages_EmptyQueue(t *testing.T) {
	f := newPosterFixture(t, &fakeTransport{})

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	require.NoError(t, err)
	assert.Zero(t, posted)
	assert.Empty(t, f.transport.sent)
	assert.Contains(t, f.log.Lines(), "no message")
}

func TestPoster_PostMessages_SkipsEmptyText(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 201, Body: successBody("1", "real")},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "", "real")

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{Count: 2})

	require.NoError(t, err)
	// The empty head consumed a slot without a network call.
	assert.Equal(t, 1, posted)
	require.Len(t, f.transport.sent, 1)
	assert.Equal(t, "real", f.transport.sent[0].Text)
	assert.Zero(t, f.queue.Len(""))
}

func TestPoster_PostMessages_SeekRotatesPastDuplicates(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 403, Body: duplicateBody()},
		{StatusCode: 403, Body: duplicateBody()},
		{StatusCode: 201, Body: successBody("1", "fresh")},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "dup1", "dup2", "fresh")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Policy: domain.PolicySeek})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	// The two rejected messages rotated to the tail and stayed queued.
	assert.Equal(t, []string{"dup1", "dup2"}, f.remaining())
}

func TestPoster_PostMessages_SeekAllDuplicatesBounded(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 403, Body: duplicateBody()},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "a", "b", "c")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Policy: domain.PolicySeek})

	require.NoError(t, err)
	assert.Zero(t, posted)
	// Each queued message was tried exactly once, then the run stopped.
	assert.Len(t, f.transport.sent, 3)
	// A full rotation restores the original order.
	assert.Equal(t, []string{"a", "b", "c"}, f.remaining())
}

func TestPoster_PostMessages_DiscardDropsDuplicates(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 403, Body: duplicateBody()},
		{StatusCode: 403, Body: duplicateBody()},
		{StatusCode: 201, Body: successBody("1", "fresh")},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "dup1", "dup2", "fresh")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Policy: domain.PolicyDiscard})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.Zero(t, f.queue.Len(""))
}

func TestPoster_PostMessages_DiscardAllDuplicates(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 403, Body: duplicateBody()},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "a", "b", "c")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Policy: domain.PolicyDiscard})

	require.NoError(t, err)
	assert.Zero(t, posted)
	assert.Len(t, f.transport.sent, 3)
	assert.Zero(t, f.queue.Len(""))
}

func TestPoster_PostMessages_CancelLeavesHead(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 403, Body: duplicateBody()},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "dup", "next")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Policy: domain.PolicyCancel})

	require.NoError(t, err)
	assert.Zero(t, posted)
	assert.Len(t, f.transport.sent, 1)
	assert.Equal(t, []string{"dup", "next"}, f.remaining())
}

func TestPoster_PostMessages_IgnoreDropsHeadAndStops(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 403, Body: duplicateBody()},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "dup", "next")

	// No policy anywhere resolves to ignore.
	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	require.NoError(t, err)
	assert.Zero(t, posted)
	assert.Len(t, f.transport.sent, 1)
	assert.Equal(t, []string{"next"}, f.remaining())
}

func TestPoster_PostMessages_PolicyFromConfig(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 403, Body: duplicateBody()},
	}}
	f := newPosterFixture(t, transport)
	f.store.Set("duplicated", "cancel")
	f.enqueue(t, "dup")

	_, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	require.NoError(t, err)
	// cancel leaves the head in place where the default would drop it.
	assert.Equal(t, []string{"dup"}, f.remaining())
}

func TestPoster_PostMessages_InvalidPolicy(t *testing.T) {
	f := newPosterFixture(t, &fakeTransport{})
	f.enqueue(t, "msg")

	_, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Policy: domain.DuplicatePolicy("bogus")})

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, f.queue.Len(""))
}

func TestPoster_PostMessages_HardFailureLeavesQueue(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 500, Body: []byte(`{"detail":"server error"}`)},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "msg")

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	// The retry budget (zero) absorbed the failure; the run ends cleanly.
	require.NoError(t, err)
	assert.Zero(t, posted)
	assert.Equal(t, []string{"msg"}, f.remaining())

	lines := f.log.Lines()
	require.NotEmpty(t, lines)
	assert.Contains(t, lines[0], "server error")
	assert.Contains(t, lines[0], "*domain.PostError")
}

func TestPoster_PostMessages_RetryBudget(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 500, Body: []byte(`{"detail":"flaky"}`)},
		{StatusCode: 201, Body: successBody("1", "msg")},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "msg")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Retries: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.Len(t, f.transport.sent, 2)
	assert.Zero(t, f.queue.Len(""))
}

func TestPoster_PostMessages_RetryBudgetExhausted(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 500, Body: []byte(`{"detail":"down"}`)},
	}}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "msg")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Count: 3, Retries: 2})

	require.NoError(t, err)
	assert.Zero(t, posted)
	// 1 initial attempt + 2 retries.
	assert.Len(t, f.transport.sent, 3)
	assert.Equal(t, []string{"msg"}, f.remaining())
}

func TestPoster_PostMessages_TransportError(t *testing.T) {
	transport := &fakeTransport{err: errors.New("connection refused")}
	f := newPosterFixture(t, transport)
	f.enqueue(t, "msg")

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	// Wrapped into a PostError and consumed by the (empty) retry budget.
	require.NoError(t, err)
	assert.Zero(t, posted)
	assert.Equal(t, 1, f.queue.Len(""))
}

func TestPoster_PostMessages_UnregisteredAccountPropagates(t *testing.T) {
	f := newPosterFixture(t, &fakeTransport{})
	f.enqueue(t, "msg")

	_, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{Account: "stranger"})

	require.ErrorIs(t, err, domain.ErrNotRegistered)
	assert.Equal(t, 1, f.queue.Len(""))
}

func TestPoster_PostMessages_NoPost(t *testing.T) {
	f := newPosterFixture(t, &fakeTransport{})
	f.enqueue(t, "simulated")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{NoPost: true})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.Empty(t, f.transport.sent)
	assert.Zero(t, f.queue.Len(""))
	// Simulated posts never reach the history.
	assert.Empty(t, f.history.records)
	assert.Contains(t, f.log.Lines(), "posted: simulated")
}

func TestPoster_PostMessages_NilHistory(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 201, Body: successBody("1", "hello")},
	}}
	f := newPosterFixture(t, transport)
	f.poster = NewPoster(f.store, f.queue, NewCredentialService(f.store, &fakeSignerFactory{}, nil),
		transport, nil, f.log)
	f.enqueue(t, "hello")

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
}

func TestPoster_PostMessages_HistoryFailureDoesNotFailPost(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 201, Body: successBody("1", "hello")},
	}}
	f := newPosterFixture(t, transport)
	f.history.err = errors.New("disk full")
	f.enqueue(t, "hello")

	posted, err := f.poster.PostMessages(context.Background(), driving.PostOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.Contains(t, f.log.Lines(), "history not recorded: disk full")
}

func TestPoster_PostMessages_NamedList(t *testing.T) {
	transport := &fakeTransport{responses: []*domain.APIResponse{
		{StatusCode: 201, Body: successBody("1", "from announcements")},
	}}
	f := newPosterFixture(t, transport)
	require.NoError(t, f.queue.Append("announcements", "from announcements"))
	f.enqueue(t, "default untouched")

	posted, err := f.poster.PostMessages(context.Background(),
		driving.PostOptions{List: "announcements"})

	require.NoError(t, err)
	assert.Equal(t, 1, posted)
	assert.Zero(t, f.queue.Len("announcements"))
	assert.Equal(t, 1, f.queue.Len(""))
}
