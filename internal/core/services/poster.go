package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plumeworks/plover-cli/internal/core/domain"
	"github.com/plumeworks/plover-cli/internal/core/ports/driven"
	"github.com/plumeworks/plover-cli/internal/core/ports/driving"
	"github.com/plumeworks/plover-cli/internal/logger"
	"github.com/plumeworks/plover-cli/internal/runlog"
)

// Ensure Poster implements the interface.
var _ driving.Poster = (*Poster)(nil)

// Poster drives the posting protocol: pull the queue head, sign and send,
// interpret the response, apply the duplicate policy, and decide whether to
// retry, requeue, discard, or stop.
type Poster struct {
	store     driven.ConfigStore
	queue     driving.QueueService
	creds     driving.CredentialService
	transport driven.Transport
	history   driven.HistoryStore // nil disables history
	log       *runlog.RunLog
}

// NewPoster creates a poster. history may be nil.
func NewPoster(
	store driven.ConfigStore,
	queue driving.QueueService,
	creds driving.CredentialService,
	transport driven.Transport,
	history driven.HistoryStore,
	log *runlog.RunLog,
) *Poster {
	return &Poster{
		store:     store,
		queue:     queue,
		creds:     creds,
		transport: transport,
		history:   history,
		log:       log,
	}
}

// PostMessages runs the posting loop once per unit of the requested count.
// A hard failure is logged and retried against the same slot until the
// retry budget runs out, at which point the remaining count is abandoned
// (not an error). An empty queue or a policy block also ends the run early.
func (p *Poster) PostMessages(ctx context.Context, opts driving.PostOptions) (int, error) {
	count := opts.Count
	if count <= 0 {
		count = 1
	}
	retries := opts.Retries

	policy, err := p.resolvePolicy(opts.Policy)
	if err != nil {
		return 0, err
	}
	account := opts.Account
	if account == "" {
		account = p.creds.DefaultAccount()
	}

	posted := 0
	for done := 0; done < count; {
		res, err := p.postNext(ctx, account, opts.List, policy, opts.NoPost)
		if err != nil {
			var postErr *domain.PostError
			if !errors.As(err, &postErr) {
				return posted, err
			}
			p.log.LogError(err)
			if retries <= 0 {
				p.log.Logf("retry budget exhausted, abandoning %d remaining post(s)", count-done)
				return posted, nil
			}
			retries--
			logger.Debug("retrying post slot %d (%d retries left)", done+1, retries)
			continue
		}

		switch res.Outcome {
		case domain.OutcomePosted:
			posted++
			done++
		case domain.OutcomeSkipped:
			// Consumed the slot without a post.
			done++
		case domain.OutcomeNoMessage, domain.OutcomeBlocked:
			return posted, nil
		}
	}
	return posted, nil
}

// postNext performs one posting attempt loop against the queue. The number
// of attempts is bounded by the queue length at loop start so every
// distinct message is tried at most once per call, whatever the policy
// does to the queue.
func (p *Poster) postNext(
	ctx context.Context,
	account, list string,
	policy domain.DuplicatePolicy,
	noPost bool,
) (*domain.PostResult, error) {
	bound := p.queue.Len(list)
	if bound == 0 {
		p.log.Logf("no message")
		return &domain.PostResult{Outcome: domain.OutcomeNoMessage}, nil
	}

	for attempt := 0; attempt < bound; attempt++ {
		msg := p.queue.Head(list)
		if msg == nil {
			p.log.Logf("no message")
			return &domain.PostResult{Outcome: domain.OutcomeNoMessage}, nil
		}
		if msg.Text == "" {
			p.queue.PopHead(list)
			p.log.Logf("skipped empty message")
			return &domain.PostResult{Outcome: domain.OutcomeSkipped}, nil
		}

		// Posting never authorizes interactively; the account must already
		// be registered.
		signer, err := p.creds.Signer(ctx, account, driving.SignerOptions{})
		if err != nil {
			return nil, err
		}

		resp, err := p.send(ctx, signer, msg, noPost)
		if err != nil {
			return nil, err
		}

		if status, ok := resp.Success(); ok {
			p.queue.PopHead(list)
			p.log.Logf("posted: %s", status.Text)
			p.record(ctx, account, msg, status, noPost)
			return &domain.PostResult{Outcome: domain.OutcomePosted, Posted: status}, nil
		}

		if resp.IsDuplicate() {
			p.log.Logf("duplicate content rejected: %s", msg.Text)
			switch policy {
			case domain.PolicySeek:
				p.queue.RequeueHeadToTail(list)
				continue
			case domain.PolicyDiscard:
				p.queue.PopHead(list)
				continue
			case domain.PolicyCancel:
				return &domain.PostResult{Outcome: domain.OutcomeBlocked}, nil
			default: // ignore
				p.queue.PopHead(list)
				return &domain.PostResult{Outcome: domain.OutcomeBlocked}, nil
			}
		}

		// Hard failure: leave the queue untouched, surface the raw body.
		return nil, &domain.PostError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	p.log.Logf("every queued message was rejected as duplicate")
	return &domain.PostResult{Outcome: domain.OutcomeBlocked}, nil
}

// send performs the network call, or synthesizes a success under the
// no-post simulation.
func (p *Poster) send(ctx context.Context, signer driven.Signer, msg *domain.Message, noPost bool) (*domain.APIResponse, error) {
	if noPost {
		logger.Debug("no-post simulation, synthesizing success for: %s", msg.Text)
		body, err := json.Marshal(map[string]any{"data": map[string]any{"text": msg.Text}})
		if err != nil {
			return nil, fmt.Errorf("synthesizing response: %w", err)
		}
		return &domain.APIResponse{StatusCode: 200, Body: body}, nil
	}

	resp, err := p.transport.Send(ctx, signer, msg)
	if err != nil {
		return nil, &domain.PostError{Err: err}
	}
	return resp, nil
}

// resolvePolicy picks the duplicate policy: per-call override, then the
// config default, then ignore.
func (p *Poster) resolvePolicy(override domain.DuplicatePolicy) (domain.DuplicatePolicy, error) {
	name := string(override)
	if name == "" {
		name = p.store.GetString("duplicated")
	}
	return domain.ParseDuplicatePolicy(name)
}

// record stores a posted message in the history, best-effort. Simulated
// posts are not recorded.
func (p *Poster) record(ctx context.Context, account string, msg *domain.Message, status *domain.PostedStatus, noPost bool) {
	if p.history == nil || noPost {
		return
	}
	rec := domain.PostRecord{
		ID:           uuid.NewString(),
		Account:      account,
		Text:         msg.Text,
		ResponseText: status.Text,
		CreatedAt:    time.Now().UTC(),
	}
	if msg.Reply != nil {
		rec.InReplyTo = msg.Reply.InReplyToID
	}
	if err := p.history.Record(ctx, rec); err != nil {
		logger.Warn("recording post history: %v", err)
		p.log.Logf("history not recorded: %v", err)
	}
}
