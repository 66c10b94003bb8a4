package domain

import (
	"fmt"
)

// Message is the canonical form of a queued outbound message.
// Every message has a text body; a reply target is optional.
type Message struct {
	// Text is the message body. The canonicalizer guarantees the field is
	// present; it may still be empty, in which case the poster skips the
	// message at posting time.
	Text string `json:"text"`

	// Reply, when set, threads the message under an existing post.
	Reply *Reply `json:"reply,omitempty"`
}

// Reply identifies the post a message replies to.
type Reply struct {
	InReplyToID string `json:"in_reply_to_id"`
}

// Canonicalize normalizes a user-supplied message descriptor into a Message.
//
// Accepted shapes:
//   - a string: the message text
//   - a two-element slice [text, replyID]: text plus a reply target
//     (the reply ID is stringified, so numeric IDs are accepted)
//   - a map with a string "text" field and an optional "reply" sub-map
//     holding "in_reply_to_id" (the persisted canonical form)
//   - a Message or *Message (passes through unchanged)
//
// Anything else, including a slice of the wrong arity or a map without a
// string text field, fails with ErrInvalidMessage.
func Canonicalize(raw any) (*Message, error) {
	switch v := raw.(type) {
	case string:
		return &Message{Text: v}, nil
	case *Message:
		if v == nil {
			return nil, fmt.Errorf("%w: nil message", ErrInvalidMessage)
		}
		return v, nil
	case Message:
		return &v, nil
	case []any:
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: pair must have exactly two elements, got %d", ErrInvalidMessage, len(v))
		}
		text, ok := v[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: pair text must be a string, got %T", ErrInvalidMessage, v[0])
		}
		return &Message{
			Text:  text,
			Reply: &Reply{InReplyToID: stringify(v[1])},
		}, nil
	case []string:
		if len(v) != 2 {
			return nil, fmt.Errorf("%w: pair must have exactly two elements, got %d", ErrInvalidMessage, len(v))
		}
		return &Message{
			Text:  v[0],
			Reply: &Reply{InReplyToID: v[1]},
		}, nil
	case map[string]any:
		return messageFromMap(v)
	default:
		return nil, fmt.Errorf("%w: unsupported message type %T", ErrInvalidMessage, raw)
	}
}

// messageFromMap decodes the persisted canonical form.
func messageFromMap(m map[string]any) (*Message, error) {
	rawText, ok := m["text"]
	if !ok {
		return nil, fmt.Errorf("%w: message map has no text field", ErrInvalidMessage)
	}
	text, ok := rawText.(string)
	if !ok {
		return nil, fmt.Errorf("%w: message text must be a string, got %T", ErrInvalidMessage, rawText)
	}

	msg := &Message{Text: text}
	if rawReply, ok := m["reply"]; ok {
		replyMap, ok := rawReply.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: reply must be a map, got %T", ErrInvalidMessage, rawReply)
		}
		if id, ok := replyMap["in_reply_to_id"]; ok {
			msg.Reply = &Reply{InReplyToID: stringify(id)}
		}
	}
	return msg, nil
}

// AsMap returns the persisted canonical form of the message, suitable for
// storage inside the config document.
func (m *Message) AsMap() map[string]any {
	out := map[string]any{"text": m.Text}
	if m.Reply != nil {
		out["reply"] = map[string]any{"in_reply_to_id": m.Reply.InReplyToID}
	}
	return out
}

// stringify renders reply IDs, which users may supply as numbers.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
