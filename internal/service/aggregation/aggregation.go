// Package aggregation turns raw shift requests and shifts into the per-day and
// per-week views the calendars are drawn from. Everything here is a pure function.
package aggregation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/calendar"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/datetime"
)

// GroupByDate buckets records by their date, keeping input order inside each day.
// The second result lists the dates in ascending order.
func GroupByDate[T any](records []T, dateOf func(T) string) (map[string][]T, []string) {
	byDate := make(map[string][]T)
	for _, r := range records {
		d := dateOf(r)
		byDate[d] = append(byDate[d], r)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return byDate, dates
}

// FilterByMonth keeps the records whose date starts with "YYYY-MM-".
func FilterByMonth[T any](records []T, yearMonth string, dateOf func(T) string) []T {
	prefix := yearMonth + "-"
	out := make([]T, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(dateOf(r), prefix) {
			out = append(out, r)
		}
	}
	return out
}

func RequestDate(r shift.ShiftRequest) string { return r.Date }
func ShiftDate(s shift.Shift) string          { return s.Date }
func RecordDate(r shift.Record) string        { return r.Date }

type Classified struct {
	Pending  []shift.ShiftRequest
	Approved []shift.ShiftRequest
}

// ClassifyRequests partitions requests by status. A request with any other status
// is an error rather than silently dropped.
func ClassifyRequests(requests []shift.ShiftRequest) (Classified, error) {
	var c Classified
	for _, r := range requests {
		switch r.Status {
		case shift.RequestStatusPending:
			c.Pending = append(c.Pending, r)
		case shift.RequestStatusApproved:
			c.Approved = append(c.Approved, r)
		default:
			return Classified{}, fmt.Errorf("%w: request %s has status %q", shift.ErrUnknownStatus, r.ID, r.Status)
		}
	}
	return c, nil
}

// ConfirmedShifts drops shifts that are not confirmed.
func ConfirmedShifts(shifts []shift.Shift) []shift.Shift {
	out := make([]shift.Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.IsConfirmed {
			out = append(out, s)
		}
	}
	return out
}

// BuildRecords normalises requests and shifts into calendar records: pending
// requests first, then approved requests, then shifts.
func BuildRecords(requests []shift.ShiftRequest, shifts []shift.Shift) ([]shift.Record, error) {
	classified, err := ClassifyRequests(requests)
	if err != nil {
		return nil, err
	}

	records := make([]shift.Record, 0, len(requests)+len(shifts))
	for _, group := range [][]shift.ShiftRequest{classified.Pending, classified.Approved} {
		for _, r := range group {
			rec, err := shift.RecordFromRequest(r)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	for _, s := range shifts {
		records = append(records, shift.RecordFromShift(s))
	}
	return records, nil
}

// ComputeWeeklyTotals sums hours per Sunday-to-Saturday week clipped to the month.
// A week opens on a Sunday or on day 1 and closes on a Saturday or on the last day.
// Pending requests count as pending hours; approved requests and confirmed shifts
// count as approved hours. Slots that cannot be parsed contribute nothing.
func ComputeWeeklyTotals(year, month int, requests []shift.ShiftRequest, shifts []shift.Shift) ([]calendar.WeekBucket, error) {
	yearMonth := datetime.YearMonth(year, month)
	records, err := BuildRecords(
		FilterByMonth(requests, yearMonth, RequestDate),
		ConfirmedShifts(FilterByMonth(shifts, yearMonth, ShiftDate)),
	)
	if err != nil {
		return nil, err
	}

	pendingByDay := make(map[string]float64)
	approvedByDay := make(map[string]float64)
	for _, rec := range records {
		hours := slotHours(shift.TimeSlot{Start: rec.StartTime, End: rec.EndTime})
		if rec.IsWork() {
			approvedByDay[rec.Date] += hours
		} else {
			pendingByDay[rec.Date] += hours
		}
	}

	days := datetime.DaysInMonth(year, month)
	var (
		weeks   []calendar.WeekBucket
		current *calendar.WeekBucket
	)
	for day := 1; day <= days; day++ {
		weekday := datetime.Weekday(year, month, day)
		if weekday == 0 || day == 1 {
			if current != nil {
				current.EndDay = day - 1
				weeks = append(weeks, *current)
			}
			current = &calendar.WeekBucket{StartDay: day}
		}

		date := datetime.DateString(year, month, day)
		current.PendingHours += pendingByDay[date]
		current.ApprovedHours += approvedByDay[date]

		if weekday == 6 || day == days {
			current.EndDay = day
			weeks = append(weeks, *current)
			current = nil
		}
	}
	return weeks, nil
}

func slotHours(slot shift.TimeSlot) float64 {
	hours, err := slot.Hours()
	if err != nil {
		return 0
	}
	return hours
}

// CalendarCellsForMonth lays the month out on a Sunday-first grid: startWeekday
// blank cells followed by one cell per day.
func CalendarCellsForMonth(year, month int, byDate map[string][]shift.Record) []calendar.Cell {
	start := datetime.StartWeekdayOfMonth(year, month)
	days := datetime.DaysInMonth(year, month)

	cells := make([]calendar.Cell, 0, start+days)
	for i := 0; i < start; i++ {
		cells = append(cells, calendar.Cell{IsEmpty: true, Records: []shift.Record{}})
	}
	for day := 1; day <= days; day++ {
		date := datetime.DateString(year, month, day)
		records := byDate[date]
		if records == nil {
			records = []shift.Record{}
		}
		weekend := datetime.IsWeekend(year, month, day)
		cells = append(cells, calendar.Cell{
			Day:              day,
			Date:             date,
			IsWeekend:        weekend,
			IsClickableEmpty: !weekend && len(records) == 0,
			Records:          records,
		})
	}
	return cells
}
