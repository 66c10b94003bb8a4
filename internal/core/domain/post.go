package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DuplicateContentDetail is the exact detail string the platform returns
// when rejecting a post as duplicate content.
const DuplicateContentDetail = "You are not allowed to create a Tweet with duplicate content."

// Outcome classifies the result of a single posting attempt.
type Outcome int

const (
	// OutcomePosted means a message was sent and accepted.
	OutcomePosted Outcome = iota
	// OutcomeNoMessage means the queue was empty; there is no further work.
	OutcomeNoMessage
	// OutcomeSkipped means the head had empty text and was consumed without
	// a network call.
	OutcomeSkipped
	// OutcomeBlocked means the duplicate policy stopped posting from this
	// queue for the current run.
	OutcomeBlocked
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomePosted:
		return "posted"
	case OutcomeNoMessage:
		return "no message"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeBlocked:
		return "blocked"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// PostResult is the resolved outcome of one posting attempt, together with
// the accepted message when something was posted.
type PostResult struct {
	Outcome Outcome
	// Posted holds the platform's echo of the accepted message. Only set
	// for OutcomePosted.
	Posted *PostedStatus
}

// PostedStatus is the data object the platform returns for an accepted post.
type PostedStatus struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// APIResponse is the raw result of a posting call: HTTP status plus body.
// Interpretation of the body belongs to the domain, not the transport.
type APIResponse struct {
	StatusCode int
	Body       []byte
}

// Success decodes the response body and returns the accepted status when the
// body has the success shape: a "data" object containing a "text" field.
func (r *APIResponse) Success() (*PostedStatus, bool) {
	var parsed struct {
		Data *struct {
			ID   string  `json:"id"`
			Text *string `json:"text"`
		} `json:"data"`
	}
	if err := json.Unmarshal(r.Body, &parsed); err != nil {
		return nil, false
	}
	if parsed.Data == nil || parsed.Data.Text == nil {
		return nil, false
	}
	return &PostedStatus{ID: parsed.Data.ID, Text: *parsed.Data.Text}, true
}

// IsDuplicate reports whether the body is the platform's duplicate-content
// rejection.
func (r *APIResponse) IsDuplicate() bool {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(r.Body, &parsed); err != nil {
		return false
	}
	return parsed.Detail == DuplicateContentDetail
}

// PostError is a hard posting failure: any failed response that is not the
// duplicate-content rejection, including transport errors and unparseable
// bodies. It carries the raw body so the run log can show exactly what the
// platform said.
type PostError struct {
	StatusCode int
	Body       []byte
	Err        error // underlying transport error, if any
}

// Error formats the failure with the raw body.
func (e *PostError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("posting failed: %v", e.Err)
	}
	return fmt.Sprintf("posting failed (status %d): %s", e.StatusCode, string(e.Body))
}

// Unwrap exposes the underlying transport error to errors.Is/As.
func (e *PostError) Unwrap() error { return e.Err }

// PostRecord is one entry in the post history.
type PostRecord struct {
	ID           string
	Account      string
	Text         string
	InReplyTo    string
	ResponseText string
	CreatedAt    time.Time
}
