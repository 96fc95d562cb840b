package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/matryer/is"
)

func TestUnknownEnumValueIsAlsoAMalformedRow(t *testing.T) {
	is := is.New(t)

	err := NewUnknownEnumValueError("ViolationCurrentStatus", "VIOLATION-OPEN")

	is.True(stderrors.Is(err, ErrUnknownEnumValue))
	is.True(stderrors.Is(err, ErrMalformedRow))
	is.True(!stderrors.Is(err, ErrSourceUnavailable)) // should not match unrelated sentinels
	is.Equal(Code(err), "UNKNOWN_ENUM_VALUE")
}

func TestSourceUnavailableKeepsItsCause(t *testing.T) {
	is := is.New(t)

	cause := fmt.Errorf("connection refused")
	err := fmt.Errorf("documents: %w", NewSourceUnavailableError("acris", cause))

	is.True(stderrors.Is(err, ErrSourceUnavailable))
	is.True(stderrors.Is(err, cause)) // cause should be reachable through Unwrap
	is.Equal(Code(err), "SOURCE_UNAVAILABLE")
}

func TestCodeOfJoinedErrors(t *testing.T) {
	is := is.New(t)

	err := stderrors.Join(NewMalformedRowError("Party", "missing name"), nil)

	is.Equal(Code(err), "MALFORMED_ROW")
	is.Equal(Code(nil), "")
	is.Equal(Code(fmt.Errorf("boom")), "INTERNAL_ERROR")
}

func TestUnknownFieldIsABadRequest(t *testing.T) {
	is := is.New(t)

	err := NewUnknownFieldError("Property", "owners")

	is.True(stderrors.Is(err, ErrBadRequest))
	is.Equal(err.Error(), `Property has no field "owners"`)
}
