package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no macro, group or exported definition
// matches the supplied identifier.
var ErrNotFound = errors.New("not found")

// ErrInvalidIndex is returned when an action or trigger index is not a
// positive integer. Index validation happens at the facade; the command
// builder interpolates indices as-is.
var ErrInvalidIndex = errors.New("index must be a positive integer")

// ErrEmptyPayload is returned when a payload-bearing operation receives a
// blank fragment.
var ErrEmptyPayload = errors.New("payload must not be empty")

// EngineError is an engine-reported failure: a scripting dictionary
// error, a missing element, or an automation permission denial. The
// message is the engine's own, surfaced verbatim. Engine failures are
// never retried; they are rarely transient, and a blind retry can
// duplicate side effects.
type EngineError struct {
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine: %s", e.Message)
}

// IsEngineError reports whether err (or anything it wraps) is an
// engine-reported failure rather than a transport one.
func IsEngineError(err error) bool {
	var ee *EngineError
	return errors.As(err, &ee)
}
