package sim

import "errors"

// Error kinds. Every error returned by the builder, the loaders in sim/workload and
// the engine wraps exactly one of these, so callers classify failures with errors.Is.
var (
	// ErrResourceUnavailable means an input source (or the result sink) could not be read or written.
	ErrResourceUnavailable = errors.New("resource unavailable")
	// ErrMalformedInput means input content violates the expected structure.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInvariantViolation means the engine stopped without reaching a valid termination,
	// e.g. the cycle cap was exceeded.
	ErrInvariantViolation = errors.New("invariant violation")
)
