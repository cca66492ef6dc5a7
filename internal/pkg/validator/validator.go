package validator

import (
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/datetime"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := datetime.ParseDate(dateStr)
	return date, err == nil
}

// IsValidYearMonth accepts "YYYY-MM".
func IsValidYearMonth(s string) bool {
	_, _, err := datetime.ParseYearMonth(s)
	return err == nil
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidTime checks a zero-padded 24h "HH:MM" clock and returns minutes since midnight.
func IsValidTime(s string) (int, bool) {
	if !clockRegex.MatchString(s) {
		return 0, false
	}
	minutes, err := datetime.ParseClock(s)
	return minutes, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// ValidateTimeRange appends errors for a start/end clock pair. End must be strictly after start.
func ValidateTimeRange(errs ValidationErrors, startField, start, endField, end string) ValidationErrors {
	startMin, startOK := IsValidTime(start)
	endMin, endOK := IsValidTime(end)

	if IsEmpty(start) {
		errs = append(errs, ValidationError{Field: startField, Message: startField + " is required"})
	} else if !startOK {
		errs = append(errs, ValidationError{Field: startField, Message: startField + " must be a valid time in HH:MM format"})
	}
	if IsEmpty(end) {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " is required"})
	} else if !endOK {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " must be a valid time in HH:MM format"})
	}
	if startOK && endOK && startMin >= endMin {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " must be after " + startField})
	}
	return errs
}
