package models

import "errors"

var (
	// ErrJobNotFound is returned for unknown job ids, including records
	// dropped by a batch reset while the job was still in flight.
	ErrJobNotFound = errors.New("job not found")

	// ErrIllegalTransition indicates a broken state machine invariant.
	// It is a programming error, never surfaced to clients.
	ErrIllegalTransition = errors.New("illegal job state transition")
)

// ValidationError rejects a submission synchronously; no job is created
// and the batch counter stays untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ResolveError means the source could not be fetched: network failure,
// private or unavailable video, unparseable URL.
type ResolveError struct {
	Reason string
}

func (e *ResolveError) Error() string {
	return e.Reason
}

// ExtractError means ffmpeg failed to produce the output range.
type ExtractError struct {
	Reason string
}

func (e *ExtractError) Error() string {
	return e.Reason
}
