package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrInvalidInput = errors.New("invalid input")
)

// Error carries a client-facing message for one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func invalidInput(msg string) error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

// UpstreamError reports a failed fan-out. Op names the whole operation.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }
