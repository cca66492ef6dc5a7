// Package datetime holds the calendar arithmetic used by the scheduler.
// Dates are naive calendar dates: they are always evaluated in UTC and never
// converted between timezones.
package datetime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	YearMonthLayout = "2006-01"
	ClockLayout     = "15:04"
)

var weekdayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// WeekdayLabels returns the Sunday-first short weekday names used in calendar headers.
func WeekdayLabels() []string {
	labels := make([]string, len(weekdayLabels))
	copy(labels, weekdayLabels[:])
	return labels
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(clock string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM", clock)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid clock %q: bad hour", clock)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid clock %q: bad minute", clock)
	}
	return hour*60 + minute, nil
}

// ComposeClock joins separately selected hour and minute parts into "HH:MM".
// An empty string is returned when either part is missing.
func ComposeClock(hour, minute string) string {
	if hour == "" || minute == "" {
		return ""
	}
	return hour + ":" + minute
}

// HoursBetween returns (end - start) in hours. There is no wraparound: when
// end is not after start the result is zero or negative, so callers validate
// start < end before they get here.
func HoursBetween(start, end string) (float64, error) {
	startMinutes, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	endMinutes, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return float64(endMinutes-startMinutes) / 60, nil
}

// ParseDate parses a canonical YYYY-MM-DD date.
func ParseDate(date string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// ParseYearMonth parses "YYYY-MM" into its year and month parts.
func ParseYearMonth(yearMonth string) (int, int, error) {
	t, err := time.ParseInLocation(YearMonthLayout, yearMonth, time.UTC)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", yearMonth, err)
	}
	return t.Year(), int(t.Month()), nil
}

// YearMonth formats a year and month as "YYYY-MM".
func YearMonth(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// DateString formats a calendar day as "YYYY-MM-DD".
func DateString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func DaysInMonth(year, month int) int {
	// Day 0 of the next month normalises to the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartWeekdayOfMonth returns the weekday of the 1st, 0 = Sunday.
func StartWeekdayOfMonth(year, month int) int {
	return Weekday(year, month, 1)
}

func Weekday(year, month, day int) int {
	return int(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday())
}

func IsWeekend(year, month, day int) bool {
	wd := Weekday(year, month, day)
	return wd == int(time.Sunday) || wd == int(time.Saturday)
}

// FormatDisplayDate renders "2025-03-01" as "3月1日（土）".
func FormatDisplayDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d月%d日（%s）", int(t.Month()), t.Day(), weekdayLabels[t.Weekday()]), nil
}

// MonthTitle renders the calendar header, e.g. "2025年3月".
func MonthTitle(year, month int) string {
	return fmt.Sprintf("%d年%d月", year, month)
}
