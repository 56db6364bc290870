package events

import "fmt"

// HandlingError wraps a failure raised by a handler, carrying the handler
// so the boundary can report which one failed.
type HandlingError struct {
	Handler Handler
	Message string
	Err     error
}

// NewHandlingError builds a HandlingError for the given handler.
func NewHandlingError(h Handler, message string) *HandlingError {
	return &HandlingError{Handler: h, Message: message}
}

// WrapHandlingError builds a HandlingError around an underlying cause.
func WrapHandlingError(h Handler, err error, message string) *HandlingError {
	return &HandlingError{Handler: h, Message: message, Err: err}
}

func (e *HandlingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HandlingError) Unwrap() error { return e.Err }
