package userstream

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed is returned when the input is not a well-formed event object.
	// The underlying parse error, if any, is wrapped alongside it.
	ErrMalformed = errors.New("userstream: malformed event object")

	errPayloadNull = errors.New("target_object is missing or null")
)

// MissingFieldError is returned when an event object ends before all of
// created_at, event, target and source were seen.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("userstream: missing field %q", e.Field)
}

// DateTimeError is returned when a timestamp does not match DateTimeLayout.
type DateTimeError struct {
	Value string
	Err   error
}

func (e *DateTimeError) Error() string {
	return fmt.Sprintf("userstream: invalid datetime %q", e.Value)
}

func (e *DateTimeError) Unwrap() error {
	return e.Err
}

// PayloadError is returned when the target_object of a container event
// cannot be decoded as the payload type of its tag.
type PayloadError struct {
	Tag string
	Err error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("userstream: %s: invalid target_object: %s", e.Tag, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
