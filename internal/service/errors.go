package service

import (
	"errors"
	"fmt"
)

// Kind classifies service failures; the controller maps each to an HTTP status.
type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "store"
	}
}

// Error is returned by every TodoService operation that fails.
// Message is safe to show to callers; Err is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var (
	errTitleRequired = errors.New("title is required")
	errTitleEmpty    = errors.New("title must not be empty")
)

func validationError(msg string, err error) *Error {
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

func notFoundError(err error) *Error {
	return &Error{Kind: KindNotFound, Message: "Todo not found", Err: err}
}

func storeError(msg string, err error) *Error {
	return &Error{Kind: KindStore, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindStore for anything that is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindStore
}
