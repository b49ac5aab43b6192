// Package allocation implements the seat allocation core: the
// contiguous-block scanner, the book/unbook state transitions and the
// atomic snapshot-commit cycle that keeps the shared seat map
// consistent under concurrent requests.
package allocation

import "errors"

// ErrInvalidRequest marks malformed input (seat count out of range,
// empty unbook set).  Not retryable; the caller must fix the request.
var ErrInvalidRequest = errors.New("invalid request")

// ErrUnauthorized is returned when the caller identity is missing or
// unknown to the user directory.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNoSeatsAvailable signals that no contiguous run of the requested
// length exists.  A business outcome, not a system error; the caller
// may retry later.
var ErrNoSeatsAvailable = errors.New("no seats available")

// ErrNothingToUnbook signals that none of the requested seats were
// actually booked.  Also a business outcome.
var ErrNothingToUnbook = errors.New("nothing to unbook")

// ErrConflict is returned when a concurrent transaction committed
// first.  Retryable: the caller should re-issue the request.
var ErrConflict = errors.New("conflicting concurrent booking, retry")

// ErrStorageUnavailable wraps persistence failures.  Surfaced as fatal
// to the caller; the engine never retries internally.
var ErrStorageUnavailable = errors.New("storage unavailable")
