package scheduling

import "errors"

// Error taxonomy surfaced to handlers. Every engine operation wraps
// one of these sentinels so callers can map them with errors.Is.
var (
	// ErrNotFound means a referenced guard, post, assignment or record
	// does not exist in the caller's tenant.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means the request was malformed and was rejected
	// before any write.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState means the entities exist but refuse the requested
	// transition (blacklisted guard, locked extra shift, inactive
	// assignment).
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict means a concurrent mutation of the same slot or guard
	// won; the operation was rolled back and may be retried.
	ErrConflict = errors.New("conflicting concurrent update")
)
