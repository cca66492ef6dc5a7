package shift

import (
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/datetime"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
)

const maxNotesLength = 500

// ClockParts carries start and end times picked as separate hour and minute
// selectors. They are only consulted when start_time or end_time is empty.
type ClockParts struct {
	StartHour   string `json:"start_hour,omitempty"`
	StartMinute string `json:"start_minute,omitempty"`
	EndHour     string `json:"end_hour,omitempty"`
	EndMinute   string `json:"end_minute,omitempty"`
}

func (p ClockParts) fill(start, end *string) {
	if *start == "" {
		*start = datetime.ComposeClock(p.StartHour, p.StartMinute)
	}
	if *end == "" {
		*end = datetime.ComposeClock(p.EndHour, p.EndMinute)
	}
}

type RequestFilter struct {
	Date   string `json:"date,omitempty"`   // exact YYYY-MM-DD
	Month  string `json:"month,omitempty"`  // YYYY-MM
	Status string `json:"status,omitempty"` // pending, approved, all
	UserID string `json:"user_id,omitempty"`
}

func (f *RequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != "" {
		if _, ok := validator.IsValidDate(f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.Month != "" && !validator.IsValidYearMonth(f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}
	if f.Status == "all" {
		f.Status = ""
	}
	if f.Status != "" && !validator.IsInSlice(f.Status, RequestStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved, all",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ShiftFilter struct {
	Month  string `json:"month"`
	UserID string `json:"user_id,omitempty"`
}

func (f *ShiftFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if !validator.IsValidYearMonth(f.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateRequestRequest is an admin creating a request on behalf of a staff member
// (including the quick-create on an empty calendar day).
type CreateRequestRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`

	ClockParts
}

func (r *CreateRequestRequest) Validate() error {
	r.fill(&r.StartTime, &r.EndTime)

	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	errs = validateDate(errs, "date", r.Date)
	errs = validator.ValidateTimeRange(errs, "start_time", r.StartTime, "end_time", r.EndTime)

	if r.Status == "" {
		r.Status = string(RequestStatusApproved)
	}
	if !validator.IsInSlice(r.Status, RequestStatusValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: pending, approved",
		})
	}
	errs = validateNotes(errs, r.Notes)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SubmitRequestsRequest is a staff member asking for the same slot on several days.
type SubmitRequestsRequest struct {
	UserID    string   `json:"-"`
	Dates     []string `json:"dates"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Notes     string   `json:"notes"`

	ClockParts
}

func (r *SubmitRequestsRequest) Validate() error {
	r.fill(&r.StartTime, &r.EndTime)

	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if len(r.Dates) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "dates",
			Message: "at least one date must be selected",
		})
	}
	seen := make(map[string]struct{}, len(r.Dates))
	for _, d := range r.Dates {
		if _, ok := validator.IsValidDate(d); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "dates",
				Message: "every date must be in YYYY-MM-DD format",
			})
			break
		}
		if _, dup := seen[d]; dup {
			errs = append(errs, validator.ValidationError{
				Field:   "dates",
				Message: "dates must not contain duplicates",
			})
			break
		}
		seen[d] = struct{}{}
	}
	errs = validator.ValidateTimeRange(errs, "start_time", r.StartTime, "end_time", r.EndTime)
	errs = validateNotes(errs, r.Notes)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateRequestRequest changes the slot (and optionally notes) of a request.
// UserID is set from the token for staff; it is empty for admins.
type UpdateRequestRequest struct {
	ID        string  `json:"-"`
	UserID    string  `json:"-"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Notes     *string `json:"notes,omitempty"`

	ClockParts
}

func (r *UpdateRequestRequest) Validate() error {
	r.fill(&r.StartTime, &r.EndTime)

	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	errs = validator.ValidateTimeRange(errs, "start_time", r.StartTime, "end_time", r.EndTime)
	if r.Notes != nil {
		errs = validateNotes(errs, *r.Notes)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AdjustRequestRequest struct {
	ID        string `json:"-"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Notes     string `json:"notes"`

	ClockParts
}

func (r *AdjustRequestRequest) Validate() error {
	r.fill(&r.StartTime, &r.EndTime)

	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	errs = validator.ValidateTimeRange(errs, "start_time", r.StartTime, "end_time", r.EndTime)
	errs = validateNotes(errs, r.Notes)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CreateShiftRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Notes     string `json:"notes"`

	ClockParts
}

func (r *CreateShiftRequest) Validate() error {
	r.fill(&r.StartTime, &r.EndTime)

	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	errs = validateDate(errs, "date", r.Date)
	errs = validator.ValidateTimeRange(errs, "start_time", r.StartTime, "end_time", r.EndTime)
	errs = validateNotes(errs, r.Notes)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateShiftRequest struct {
	ID        string  `json:"-"`
	UserID    string  `json:"user_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Notes     *string `json:"notes,omitempty"`

	ClockParts
}

func (r *UpdateShiftRequest) Validate() error {
	r.fill(&r.StartTime, &r.EndTime)

	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	errs = validateDate(errs, "date", r.Date)
	errs = validator.ValidateTimeRange(errs, "start_time", r.StartTime, "end_time", r.EndTime)
	if r.Notes != nil {
		errs = validateNotes(errs, *r.Notes)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateDate(errs validator.ValidationErrors, field, value string) validator.ValidationErrors {
	if validator.IsEmpty(value) {
		return append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " is required",
		})
	}
	if _, ok := validator.IsValidDate(value); !ok {
		return append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be in YYYY-MM-DD format",
		})
	}
	return errs
}

func validateNotes(errs validator.ValidationErrors, notes string) validator.ValidationErrors {
	if len(notes) > maxNotesLength {
		return append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 500 characters",
		})
	}
	return errs
}

type ShiftRequestResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	UserName    string   `json:"user_name"`
	Date        string   `json:"date"`
	DisplayDate string   `json:"display_date"`
	TimeSlots   []string `json:"time_slots"`
	Status      string   `json:"status"`
	Notes       string   `json:"notes,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

func NewShiftRequestResponse(r ShiftRequest) ShiftRequestResponse {
	slots := r.TimeSlots
	if slots == nil {
		slots = []string{}
	}
	return ShiftRequestResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Date:        r.Date,
		DisplayDate: displayDate(r.Date),
		TimeSlots:   slots,
		Status:      string(r.Status),
		Notes:       r.Notes,
		CreatedAt:   formatTimestamp(r.CreatedAt),
		UpdatedAt:   formatTimestamp(r.UpdatedAt),
	}
}

type ShiftResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Date        string `json:"date"`
	DisplayDate string `json:"display_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsConfirmed bool   `json:"is_confirmed"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

func NewShiftResponse(s Shift) ShiftResponse {
	return ShiftResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		UserName:    s.UserName,
		Date:        s.Date,
		DisplayDate: displayDate(s.Date),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsConfirmed: s.IsConfirmed,
		Notes:       s.Notes,
		CreatedAt:   formatTimestamp(s.CreatedAt),
		UpdatedAt:   formatTimestamp(s.UpdatedAt),
	}
}

type SubmitRequestsResponse struct {
	Created  int                    `json:"created"`
	Failed   int                    `json:"failed"`
	Requests []ShiftRequestResponse `json:"requests"`
	Errors   map[string]string      `json:"errors,omitempty"` // date -> reason
}

func displayDate(date string) string {
	label, err := datetime.FormatDisplayDate(date)
	if err != nil {
		return date
	}
	return label
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
