// Package tableapi implements the domain repositories on top of the remote table API.
package tableapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
)

// timestamp accepts epoch milliseconds or a formatted string; the table API has stored both.
type timestamp time.Time

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" || string(b) == `""` {
		*t = timestamp{}
		return nil
	}
	if b[0] != '"' {
		ms, err := strconv.ParseInt(string(b), 10, 64)
		if err != nil {
			return fmt.Errorf("timestamp %s: %w", b, err)
		}
		*t = timestamp(time.UnixMilli(ms).UTC())
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = timestamp(time.UnixMilli(ms).UTC())
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = timestamp(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", s)
}

func (t timestamp) Time() time.Time {
	return time.Time(t)
}

type userRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Password  string    `json:"password"`
	CreatedAt timestamp `json:"created_at"`
}

func (r userRecord) toEntity() user.User {
	return user.User{
		ID:        r.ID,
		Name:      r.Name,
		Role:      user.Role(r.Role),
		Password:  r.Password,
		CreatedAt: r.CreatedAt.Time(),
	}
}

type shiftRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	Date        string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	IsConfirmed bool      `json:"is_confirmed"`
	Notes       string    `json:"notes"`
	CreatedAt   timestamp `json:"created_at"`
	UpdatedAt   timestamp `json:"updated_at"`
}

func (r shiftRecord) toEntity() shift.Shift {
	return shift.Shift{
		ID:          r.ID,
		UserID:      r.UserID,
		UserName:    r.UserName,
		Date:        r.Date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		IsConfirmed: r.IsConfirmed,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt.Time(),
		UpdatedAt:   r.UpdatedAt.Time(),
	}
}

type shiftRequestRecord struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Date      string    `json:"date"`
	TimeSlots []string  `json:"time_slots"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt timestamp `json:"created_at"`
	UpdatedAt timestamp `json:"updated_at"`
}

func (r shiftRequestRecord) toEntity() shift.ShiftRequest {
	return shift.ShiftRequest{
		ID:        r.ID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Date:      r.Date,
		TimeSlots: r.TimeSlots,
		Status:    shift.RequestStatus(r.Status),
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.Time(),
		UpdatedAt: r.UpdatedAt.Time(),
	}
}

// Create bodies leave id and timestamps to the table API.

type createUserBody struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type createShiftBody struct {
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsConfirmed bool   `json:"is_confirmed"`
	Notes       string `json:"notes"`
}

type createShiftRequestBody struct {
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	Date      string   `json:"date"`
	TimeSlots []string `json:"time_slots"`
	Status    string   `json:"status"`
	Notes     string   `json:"notes"`
}
