package calendar

import (
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
)

type MonthQuery struct {
	Month  string `json:"month"` // YYYY-MM
	UserID string `json:"user_id,omitempty"`
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(q.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month is required",
		})
	} else if !validator.IsValidYearMonth(q.Month) {
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
