package rff

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports a non-positive dimension or kernel width,
	// or a malformed coefficient record.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInvalidState reports a call made before the mapper was configured
	// or before its coefficients were Ready.
	ErrInvalidState = errors.New("invalid state")
	// ErrDimensionMismatch reports input whose length differs from the
	// input dimension the current coefficients were generated for.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// Error carries the failing operation alongside one of the sentinel kinds.
// errors.Is(err, ErrInvalidState) and friends match through Unwrap.
type Error struct {
	Kind    error
	Op      string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rff %s: %v: %s", e.Op, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalidParameter(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidParameter, Op: op, Message: fmt.Sprintf(format, args...)}
}

func invalidState(op, format string, args ...interface{}) error {
	return &Error{Kind: ErrInvalidState, Op: op, Message: fmt.Sprintf(format, args...)}
}

func dimensionMismatch(op string, got, want int) error {
	return &Error{Kind: ErrDimensionMismatch, Op: op, Message: fmt.Sprintf("input has %d entries, coefficients expect %d", got, want)}
}
