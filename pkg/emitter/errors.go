package emitter

import (
	"errors"
	"fmt"
)

// ArgumentError is raised (as a panic value) when an operation receives an
// argument that breaks its contract.
type ArgumentError struct {
	Op  string
	Msg string
}

func (e *ArgumentError) Error() string { return "eventist#" + e.Op + ": " + e.Msg }

// IsInvalidArgument reports whether err is an *ArgumentError.
func IsInvalidArgument(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}

func invalid(op, msg string) {
	panic(&ArgumentError{Op: op, Msg: msg})
}

// SendError wraps a handler failure that happened in a deferred send which had
// no callback to receive it.
type SendError struct {
	Event string
	Err   error
}

func (e *SendError) Error() string { return fmt.Sprintf("eventist: send %q: %v", e.Event, e.Err) }

func (e *SendError) Unwrap() error { return e.Err }

// IsSendError reports whether err came from an unanswered deferred send.
func IsSendError(err error) bool {
	var se *SendError
	return errors.As(err, &se)
}

// asError coerces a recovered panic value into an error.
func asError(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}
