package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an extraction failure so callers can branch on it
// programmatically instead of parsing message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindDependencyUnavailable
	KindSourceUnreadable
	KindDecodeFailed
	KindTimeout
	KindEmptyResult
	KindFormatUnsupported
)

func (k Kind) String() string {
	switch k {
	case KindDependencyUnavailable:
		return "DependencyUnavailable"
	case KindSourceUnreadable:
		return "SourceUnreadable"
	case KindDecodeFailed:
		return "DecodeFailed"
	case KindTimeout:
		return "Timeout"
	case KindEmptyResult:
		return "EmptyResult"
	case KindFormatUnsupported:
		return "FormatUnsupported"
	default:
		return "Unknown"
	}
}

// Error is the structured failure type surfaced by every pipeline stage.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Context: make(map[string]any),
	}
}

func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Context: make(map[string]any),
		Cause:   cause,
	}
}

func (e *Error) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("[%s] %s", e.Kind.String(), e.Message))

	if len(e.Context) > 0 {
		var ctxParts []string
		for k, v := range e.Context {
			ctxParts = append(ctxParts, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context: %s", strings.Join(ctxParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause: %v", e.Cause))
	}

	return strings.Join(parts, " | ")
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value any) *Error {
	e.Context[key] = value
	return e
}

// IsKind reports whether err (or anything it wraps) is an Error of the
// given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
