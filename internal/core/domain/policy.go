package domain

import "fmt"

// DuplicatePolicy selects how the poster reacts when the platform rejects a
// message as duplicate content.
type DuplicatePolicy string

const (
	// PolicySeek moves the rejected head to the tail and tries the next
	// message, so a run can make progress past a duplicate.
	PolicySeek DuplicatePolicy = "seek"

	// PolicyDiscard drops the rejected head permanently and tries the next
	// message. Discarded messages do not count against the post budget.
	PolicyDiscard DuplicatePolicy = "discard"

	// PolicyCancel leaves the head in place and stops posting from this
	// queue for the current run.
	PolicyCancel DuplicatePolicy = "cancel"

	// PolicyIgnore drops the rejected head and stops posting. This is the
	// default.
	PolicyIgnore DuplicatePolicy = "ignore"
)

// DefaultDuplicatePolicy applies when neither the call nor the config names
// a policy.
const DefaultDuplicatePolicy = PolicyIgnore

// ParseDuplicatePolicy validates a policy name. The empty string resolves to
// the default.
func ParseDuplicatePolicy(name string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(name) {
	case "":
		return DefaultDuplicatePolicy, nil
	case PolicySeek, PolicyDiscard, PolicyCancel, PolicyIgnore:
		return DuplicatePolicy(name), nil
	default:
		return "", fmt.Errorf("%w: unknown duplicate policy %q (want seek, discard, cancel, or ignore)",
			ErrInvalidInput, name)
	}
}
