package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_String(t *testing.T) {
	msg, err := Canonicalize("hello")

	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	assert.Nil(t, msg.Reply)
}

func TestCanonicalize_Pair(t *testing.T) {
	msg, err := Canonicalize([]any{"hi", "12345"})

	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Text)
	require.NotNil(t, msg.Reply)
	assert.Equal(t, "12345", msg.Reply.InReplyToID)
}

func TestCanonicalize_PairStringifiesNumericID(t *testing.T) {
	msg, err := Canonicalize([]any{"hi", 42})

	require.NoError(t, err)
	require.NotNil(t, msg.Reply)
	assert.Equal(t, "42", msg.Reply.InReplyToID)
}

func TestCanonicalize_StringPair(t *testing.T) {
	msg, err := Canonicalize([]string{"hi", "67890"})

	require.NoError(t, err)
	assert.Equal(t, "hi", msg.Text)
	require.NotNil(t, msg.Reply)
	assert.Equal(t, "67890", msg.Reply.InReplyToID)
}

func TestCanonicalize_WrongArity(t *testing.T) {
	_, err := Canonicalize([]any{"one", "two", "three"})
	require.ErrorIs(t, err, ErrInvalidMessage)

	_, err = Canonicalize([]any{"one"})
	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestCanonicalize_PairTextMustBeString(t *testing.T) {
	_, err := Canonicalize([]any{42, "12345"})

	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestCanonicalize_UnsupportedType(t *testing.T) {
	_, err := Canonicalize(123)

	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestCanonicalize_Map(t *testing.T) {
	msg, err := Canonicalize(map[string]any{
		"text":  "hello",
		"reply": map[string]any{"in_reply_to_id": "999"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Text)
	require.NotNil(t, msg.Reply)
	assert.Equal(t, "999", msg.Reply.InReplyToID)
}

func TestCanonicalize_MapWithoutText(t *testing.T) {
	_, err := Canonicalize(map[string]any{"reply": map[string]any{}})

	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestCanonicalize_MapRoundTrip(t *testing.T) {
	original := &Message{Text: "hi", Reply: &Reply{InReplyToID: "1"}}

	msg, err := Canonicalize(original.AsMap())

	require.NoError(t, err)
	assert.Equal(t, original, msg)
}

func TestCanonicalize_MessagePassthrough(t *testing.T) {
	original := &Message{Text: "hi"}

	msg, err := Canonicalize(original)

	require.NoError(t, err)
	assert.Same(t, original, msg)
}

func TestCanonicalize_NilMessage(t *testing.T) {
	_, err := Canonicalize((*Message)(nil))

	require.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMessage_AsMap(t *testing.T) {
	msg := &Message{Text: "hello"}
	assert.Equal(t, map[string]any{"text": "hello"}, msg.AsMap())

	withReply := &Message{Text: "hello", Reply: &Reply{InReplyToID: "7"}}
	assert.Equal(t, map[string]any{
		"text":  "hello",
		"reply": map[string]any{"in_reply_to_id": "7"},
	}, withReply.AsMap())
}
