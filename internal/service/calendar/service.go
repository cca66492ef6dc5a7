package calendar

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/calendar"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/datetime"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/aggregation"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/cache"
)

// SnapshotSource is satisfied by *cache.Cache.
type SnapshotSource interface {
	Get(ctx context.Context) (cache.Snapshot, error)
}

type calendarServiceImpl struct {
	data SnapshotSource
}

func NewCalendarService(data SnapshotSource) calendar.CalendarService {
	return &calendarServiceImpl{data: data}
}

// PendingCalendar implements calendar.CalendarService.
func (s *calendarServiceImpl) PendingCalendar(ctx context.Context, q calendar.MonthQuery) (calendar.MonthView, error) {
	return s.build(ctx, q, func(snap cache.Snapshot) ([]shift.ShiftRequest, []shift.Shift, error) {
		classified, err := aggregation.ClassifyRequests(snap.Requests)
		if err != nil {
			return nil, nil, err
		}
		return classified.Pending, nil, nil
	}, false)
}

// ApprovedCalendar implements calendar.CalendarService.
func (s *calendarServiceImpl) ApprovedCalendar(ctx context.Context, q calendar.MonthQuery) (calendar.MonthView, error) {
	return s.build(ctx, q, func(snap cache.Snapshot) ([]shift.ShiftRequest, []shift.Shift, error) {
		classified, err := aggregation.ClassifyRequests(snap.Requests)
		if err != nil {
			return nil, nil, err
		}
		return classified.Approved, aggregation.ConfirmedShifts(snap.Shifts), nil
	}, false)
}

// StaffCalendar implements calendar.CalendarService.
func (s *calendarServiceImpl) StaffCalendar(ctx context.Context, q calendar.MonthQuery) (calendar.MonthView, error) {
	if q.UserID == "" {
		return calendar.MonthView{}, validator.ValidationErrors{{Field: "user_id", Message: "user_id is required"}}
	}
	return s.build(ctx, q, func(snap cache.Snapshot) ([]shift.ShiftRequest, []shift.Shift, error) {
		var requests []shift.ShiftRequest
		for _, r := range snap.Requests {
			if r.UserID == q.UserID {
				requests = append(requests, r)
			}
		}
		var shifts []shift.Shift
		for _, sh := range aggregation.ConfirmedShifts(snap.Shifts) {
			if sh.UserID == q.UserID {
				shifts = append(shifts, sh)
			}
		}
		return requests, shifts, nil
	}, true)
}

type selectFunc func(snap cache.Snapshot) ([]shift.ShiftRequest, []shift.Shift, error)

func (s *calendarServiceImpl) build(ctx context.Context, q calendar.MonthQuery, selectRecords selectFunc, withWeeks bool) (calendar.MonthView, error) {
	if err := q.Validate(); err != nil {
		return calendar.MonthView{}, err
	}
	year, month, err := datetime.ParseYearMonth(q.Month)
	if err != nil {
		return calendar.MonthView{}, err
	}

	snap, err := s.data.Get(ctx)
	if err != nil {
		return calendar.MonthView{}, fmt.Errorf("load schedule data: %w", err)
	}

	requests, shifts, err := selectRecords(snap)
	if err != nil {
		return calendar.MonthView{}, err
	}
	requests = aggregation.FilterByMonth(requests, q.Month, aggregation.RequestDate)
	shifts = aggregation.FilterByMonth(shifts, q.Month, aggregation.ShiftDate)

	records, err := aggregation.BuildRecords(requests, shifts)
	if err != nil {
		return calendar.MonthView{}, err
	}
	byDate, _ := aggregation.GroupByDate(records, aggregation.RecordDate)

	view := calendar.MonthView{
		Year:     year,
		Month:    month,
		Title:    datetime.MonthTitle(year, month),
		Weekdays: datetime.WeekdayLabels(),
		Cells:    aggregation.CalendarCellsForMonth(year, month, byDate),
	}
	if withWeeks {
		view.Weeks, err = aggregation.ComputeWeeklyTotals(year, month, requests, shifts)
		if err != nil {
			return calendar.MonthView{}, err
		}
	}
	return view, nil
}
