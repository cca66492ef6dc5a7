package shift

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/datetime"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
)

var RequestStatusValues = []string{string(RequestStatusPending), string(RequestStatusApproved)}

// RequestAction is an admin transition applied to a ShiftRequest.
type RequestAction string

const (
	ActionApprove   RequestAction = "approve"
	ActionUnapprove RequestAction = "unapprove"
)

// TimeSlot is a work interval on a single day, encoded on the wire as "HH:MM-HH:MM".
type TimeSlot struct {
	Start string
	End   string
}

func (s TimeSlot) String() string {
	return s.Start + "-" + s.End
}

// Hours returns the slot length; no wraparound past midnight.
func (s TimeSlot) Hours() (float64, error) {
	return datetime.HoursBetween(s.Start, s.End)
}

// ParseTimeSlot splits "HH:MM-HH:MM" into its clocks.
func ParseTimeSlot(slot string) (TimeSlot, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(slot), "-")
	if !ok {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, slot)
	}
	ts := TimeSlot{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	if _, err := datetime.ParseClock(ts.Start); err != nil {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, slot)
	}
	if _, err := datetime.ParseClock(ts.End); err != nil {
		return TimeSlot{}, fmt.Errorf("%w: %q", ErrInvalidTimeSlot, slot)
	}
	return ts, nil
}

// ShiftRequest entity. Approved requests double as confirmed work on the calendars.
type ShiftRequest struct {
	ID        string
	UserID    string
	UserName  string
	Date      string // YYYY-MM-DD
	TimeSlots []string
	Status    RequestStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FirstSlot returns the only slot that is ever consulted.
func (r *ShiftRequest) FirstSlot() (TimeSlot, error) {
	if len(r.TimeSlots) == 0 {
		return TimeSlot{}, fmt.Errorf("%w: request %s has no time slot", ErrInvalidTimeSlot, r.ID)
	}
	return ParseTimeSlot(r.TimeSlots[0])
}

func (r *ShiftRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

func (r *ShiftRequest) IsApproved() bool {
	return r.Status == RequestStatusApproved
}

// Transition applies action and returns the resulting status.
// pending -approve-> approved, approved -unapprove-> pending. Re-applying an
// action is a no-op that yields the same status.
func (r *ShiftRequest) Transition(action RequestAction) (RequestStatus, error) {
	if r.Status != RequestStatusPending && r.Status != RequestStatusApproved {
		return r.Status, fmt.Errorf("%w: %q", ErrUnknownStatus, r.Status)
	}
	switch action {
	case ActionApprove:
		return RequestStatusApproved, nil
	case ActionUnapprove:
		return RequestStatusPending, nil
	default:
		return r.Status, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
}

// Shift entity: a confirmed work interval stored separately from requests.
type Shift struct {
	ID          string
	UserID      string
	UserName    string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	IsConfirmed bool
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Shift) Slot() TimeSlot {
	return TimeSlot{Start: s.StartTime, End: s.EndTime}
}

type RecordKind string

const (
	RecordPending   RecordKind = "pending"
	RecordApproved  RecordKind = "approved"
	RecordConfirmed RecordKind = "confirmed"
)

type RecordSource string

const (
	SourceRequest RecordSource = "request"
	SourceShift   RecordSource = "shift"
)

// Record is the calendar's single view of a work interval, whichever table it came from.
type Record struct {
	Kind      RecordKind   `json:"kind"`
	Source    RecordSource `json:"source"`
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	UserName  string       `json:"user_name"`
	Date      string       `json:"date"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	TimeRange string       `json:"time_range"`
	Notes     string       `json:"notes,omitempty"`
}

// IsWork reports whether the record counts as approved work.
func (r Record) IsWork() bool {
	return r.Kind == RecordApproved || r.Kind == RecordConfirmed
}

// RecordFromRequest normalises a request. The slot is best-effort: a request
// with a broken slot is still shown, carrying the raw slot text as its time range
// and no start or end time.
func RecordFromRequest(req ShiftRequest) (Record, error) {
	rec := Record{
		Source:   SourceRequest,
		ID:       req.ID,
		UserID:   req.UserID,
		UserName: req.UserName,
		Date:     req.Date,
		Notes:    req.Notes,
	}
	switch req.Status {
	case RequestStatusPending:
		rec.Kind = RecordPending
	case RequestStatusApproved:
		rec.Kind = RecordApproved
	default:
		return Record{}, fmt.Errorf("%w: request %s has status %q", ErrUnknownStatus, req.ID, req.Status)
	}
	if slot, err := req.FirstSlot(); err == nil {
		rec.StartTime, rec.EndTime, rec.TimeRange = slot.Start, slot.End, slot.String()
	} else if len(req.TimeSlots) > 0 {
		rec.TimeRange = req.TimeSlots[0]
	}
	return rec, nil
}

func RecordFromShift(s Shift) Record {
	return Record{
		Kind:      RecordConfirmed,
		Source:    SourceShift,
		ID:        s.ID,
		UserID:    s.UserID,
		UserName:  s.UserName,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		TimeRange: s.Slot().String(),
		Notes:     s.Notes,
	}
}
