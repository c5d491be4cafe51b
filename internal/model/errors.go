package model

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid input")
	ErrRange      = errors.New("index out of range")
	ErrFormat     = errors.New("corrupted task line")
	ErrIO         = errors.New("storage failure")
)

// Error carries one of the Err* kinds plus a human readable message.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Validationf returns an ErrValidation error for rejected user input.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

// Rangef returns an ErrRange error for a task number outside the list.
func Rangef(format string, args ...any) error {
	return &Error{Kind: ErrRange, Msg: fmt.Sprintf(format, args...)}
}

func formatf(format string, args ...any) error {
	return &Error{Kind: ErrFormat, Msg: fmt.Sprintf(format, args...)}
}

// IOError wraps a filesystem or database failure.
func IOError(msg string, err error) error {
	return &Error{Kind: ErrIO, Msg: msg, Err: err}
}
