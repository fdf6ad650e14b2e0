package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
)

// Error is a coded error with an explanation and an optional fix hint.
type Error struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (runtime, config, cli).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Cause is the specific failure this instance reports, shown
	// between the header and the explanation.
	Cause string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example is code showing the correct approach.
	Example string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithExample adds a code example to the error.
func (e *Error) WithExample(ex string) *Error {
	e.Example = ex
	return e
}

// WithDetail replaces the explanation.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// WithCause records the specific failure.
func (e *Error) WithCause(c string) *Error {
	e.Cause = c
	return e
}

// Wrap wraps another error and records its message as the cause.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	if err != nil && e.Cause == "" {
		e.Cause = err.Error()
	}
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in the Error for its code. Engine failures map to
// their registered codes; anything else gets fallback. Errors that are
// already coded are returned as-is.
func FromError(err error, fallback ...string) *Error {
	if err == nil {
		return nil
	}
	var coded *Error
	if stderrors.As(err, &coded) {
		return coded
	}
	return New(codeFor(err, fallback...)).Wrap(err)
}

// codeFor picks the code of an engine failure. A joined flush failure
// is reported by its first member.
func codeFor(err error, fallback ...string) string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		if errs := joined.Unwrap(); len(errs) > 0 {
			return codeFor(errs[0], fallback...)
		}
	}

	var compute *reactive.ComputeError
	switch {
	case stderrors.Is(err, reactive.ErrCycle):
		return CodeCycle
	case stderrors.Is(err, reactive.ErrEffectStorm):
		return CodeEffectStorm
	case stderrors.Is(err, reactive.ErrDisposed):
		return CodeDisposed
	case stderrors.Is(err, reactive.ErrForeignNode):
		return CodeForeignNode
	case stderrors.As(err, &compute):
		return CodeComputeFailure
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return CodeInternal
}
