package shift

import (
	"errors"
	"fmt"
)

var (
	ErrRequestNotFound    = errors.New("shift request not found")
	ErrShiftNotFound      = errors.New("shift not found")
	ErrUnknownStatus      = errors.New("unknown shift request status")
	ErrInvalidTransition  = errors.New("invalid shift request status transition")
	ErrRequestNotEditable = errors.New("only pending shift requests can be changed")
	ErrNotRequestOwner    = errors.New("shift request belongs to another user")
	ErrInvalidTimeSlot    = errors.New("invalid time slot")
	ErrNoRequestsCreated  = errors.New("no shift requests were created")
)

// CascadeError reports a per-record batch (rename or delete fan-out) that only partly completed.
// Completed calls are not rolled back.
type CascadeError struct {
	Op     string
	Total  int
	Failed int
	Errs   []error
}

func (e *CascadeError) Error() string {
	return fmt.Sprintf("%s: %d of %d records failed: %v", e.Op, e.Failed, e.Total, errors.Join(e.Errs...))
}

func (e *CascadeError) Unwrap() []error {
	return e.Errs
}
