package calendar

import (
	"context"
)

type CalendarService interface {
	// PendingCalendar shows every staff member's pending requests
	PendingCalendar(ctx context.Context, q MonthQuery) (MonthView, error)

	// ApprovedCalendar merges approved requests with confirmed shifts
	ApprovedCalendar(ctx context.Context, q MonthQuery) (MonthView, error)

	// StaffCalendar shows one user's records with weekly hour totals
	StaffCalendar(ctx context.Context, q MonthQuery) (MonthView, error)
}
