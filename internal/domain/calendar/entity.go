package calendar

import "github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"

// WeekBucket sums hours for one Sunday-to-Saturday span clipped to the month.
// The first and last buckets of a month may be shorter than seven days.
type WeekBucket struct {
	StartDay      int     `json:"start_day"`
	EndDay        int     `json:"end_day"`
	PendingHours  float64 `json:"pending_hours"`
	ApprovedHours float64 `json:"approved_hours"`
}

// Cell is one square of the month grid. Leading cells before the 1st are blank
// (IsEmpty) and carry Day 0.
type Cell struct {
	Day              int            `json:"day"`
	Date             string         `json:"date,omitempty"`
	IsWeekend        bool           `json:"is_weekend"`
	IsEmpty          bool           `json:"is_empty"`
	IsClickableEmpty bool           `json:"is_clickable_empty"`
	Records          []shift.Record `json:"records"`
}

// MonthView is everything a client needs to draw one calendar without further lookups.
type MonthView struct {
	Year     int          `json:"year"`
	Month    int          `json:"month"`
	Title    string       `json:"title"`
	Weekdays []string     `json:"weekdays"`
	Cells    []Cell       `json:"cells"`
	Weeks    []WeekBucket `json:"weeks,omitempty"`
}
