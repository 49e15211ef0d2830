package scheduling

import "fmt"

// ConfigurationError signals that a doctor has no usable availability
// window. Not retryable until the doctor fixes their configuration.
type ConfigurationError struct {
	DoctorID string
	Reason   string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("doctor %s has no availability configured: %s", e.DoctorID, e.Reason)
}

// ValidationError signals malformed caller input (date, time or
// consultation type).
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PastSlotError signals that the slot's derived instant is not in the
// future. The caller should pick another slot.
type PastSlotError struct {
	Date string
	Time string
}

func (e PastSlotError) Error() string {
	return fmt.Sprintf("cannot book a past slot (%s %s)", e.Date, e.Time)
}

// ConflictError signals that the requested time is already held, or is not
// a bookable slot at all. Retrying with a different time is always safe.
type ConflictError struct {
	Date string
	Time string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("slot %s on %s is not available", e.Time, e.Date)
}

// NotFoundError signals an unknown doctor, appointment or day schedule.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError signals that the requester is not a party to the
// appointment being acted on.
type ForbiddenError struct {
	RequesterID string
}

func (e ForbiddenError) Error() string {
	return fmt.Sprintf("requester %s is not a party to this appointment", e.RequesterID)
}

// InvalidStateError signals an operation on an appointment whose status
// does not allow it, such as cancelling an already-cancelled booking.
type InvalidStateError struct {
	Status string
}

func (e InvalidStateError) Error() string {
	return fmt.Sprintf("operation not allowed on a %s appointment", e.Status)
}

// CompensationError signals that a rollback could not complete and a slot
// reservation may be left stuck. Operator-facing: the wrapped failure is
// distinct from the caller's own request failing cleanly.
type CompensationError struct {
	DoctorID string
	Date     string
	Time     string
	Err      error
}

func (e CompensationError) Error() string {
	return fmt.Sprintf("failed to release slot %s on %s for doctor %s: %v", e.Time, e.Date, e.DoctorID, e.Err)
}

func (e CompensationError) Unwrap() error {
	return e.Err
}
