package errors

import (
	stderrors "errors"
	"fmt"
)

var ErrSourceUnavailable = fmt.Errorf("source unavailable")
var ErrMalformedRow = fmt.Errorf("malformed row")
var ErrUnknownEnumValue = fmt.Errorf("unknown enum value")
var ErrAmbiguousRelation = fmt.Errorf("ambiguous relation")
var ErrNotFound = fmt.Errorf("not found")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrUnknownField = fmt.Errorf("unknown field")

type myError struct {
	msg     string
	targets []error
	cause   error
}

func (m myError) Error() string { return m.msg }

func (m myError) Is(target error) bool {
	for _, t := range m.targets {
		if target == t {
			return true
		}
	}
	return false
}

func (m myError) Unwrap() error { return m.cause }

// NewSourceUnavailableError wraps a failure reported by a raw record source so
// that callers can match it with errors.Is(err, ErrSourceUnavailable) while the
// original cause stays reachable through errors.Unwrap.
func NewSourceUnavailableError(source string, cause error) error {
	msg := fmt.Sprintf("source %s unavailable", source)
	if cause != nil {
		msg = fmt.Sprintf("%s: %s", msg, cause.Error())
	}

	return &myError{
		msg:     msg,
		targets: []error{ErrSourceUnavailable},
		cause:   cause,
	}
}

func NewMalformedRowError(kind, msg string) error {
	return &myError{
		msg:     fmt.Sprintf("malformed %s row: %s", kind, msg),
		targets: []error{ErrMalformedRow},
	}
}

// NewUnknownEnumValueError reports a raw enum value without mapping. It is a
// MalformedRow as well.
func NewUnknownEnumValueError(enum, value string) error {
	return &myError{
		msg:     fmt.Sprintf("unknown %s value %q", enum, value),
		targets: []error{ErrUnknownEnumValue, ErrMalformedRow},
	}
}

func NewAmbiguousRelationError(relation string, count int) error {
	return &myError{
		msg:     fmt.Sprintf("relation %s expected at most one match, found %d", relation, count),
		targets: []error{ErrAmbiguousRelation},
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:     msg,
		targets: []error{ErrNotFound},
	}
}

func NewBadRequestError(msg string) error {
	return &myError{
		msg:     msg,
		targets: []error{ErrBadRequest},
	}
}

func NewUnknownFieldError(parent, field string) error {
	return &myError{
		msg:     fmt.Sprintf("%s has no field %q", parent, field),
		targets: []error{ErrUnknownField, ErrBadRequest},
	}
}

// Code returns a stable, schema facing classification of err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case stderrors.Is(err, ErrUnknownEnumValue):
		return "UNKNOWN_ENUM_VALUE"
	case stderrors.Is(err, ErrMalformedRow):
		return "MALFORMED_ROW"
	case stderrors.Is(err, ErrSourceUnavailable):
		return "SOURCE_UNAVAILABLE"
	case stderrors.Is(err, ErrAmbiguousRelation):
		return "AMBIGUOUS_RELATION"
	case stderrors.Is(err, ErrUnknownField):
		return "UNKNOWN_FIELD"
	case stderrors.Is(err, ErrBadRequest):
		return "BAD_REQUEST"
	case stderrors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	}

	return "INTERNAL_ERROR"
}
