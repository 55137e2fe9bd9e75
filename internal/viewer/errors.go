package viewer

import (
	"errors"
	"fmt"
)

// ErrNoParent is returned when a render target is not attached to a frame.
var ErrNoParent = errors.New("render target has no parent frame")

// UnknownHandlerError reports a handler identifier outside the closed set.
// It is a configuration error and is never retried.
type UnknownHandlerError struct {
	ID   HandlerID
	Path string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("unknown opener app %q at %q", e.ID, e.Path)
}

// PanicError wraps a value recovered from a panicking viewer.
type PanicError struct {
	Handler HandlerID
	Value   any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("viewer %s panicked: %v", e.Handler, e.Value)
}

// IsUnknownHandler reports whether err is or wraps an UnknownHandlerError.
func IsUnknownHandler(err error) bool {
	var unknown *UnknownHandlerError
	return errors.As(err, &unknown)
}
