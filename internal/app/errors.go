package app

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a host, event type or booking does not exist.
var ErrNotFound = errors.New("not found")

// ErrSlotTaken is returned when a proposed interval overlaps a confirmed
// booking. It is an expected outcome under contention, not a fault.
var ErrSlotTaken = errors.New("slot already booked")

// ErrSlugTaken is returned when an event type slug is already in use.
var ErrSlugTaken = errors.New("slug already in use")

// ValidationError marks input the engine refuses before it ever reaches the
// ledger: malformed intervals, non-positive durations, unknown weekdays.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a caller-input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
