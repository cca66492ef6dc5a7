package auth

import (
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
)

type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if r.Password == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	AccessToken          string            `json:"access_token"`
	AccessTokenExpiresAt int64             `json:"access_token_expires_at"`
	User                 user.UserResponse `json:"user"`
}

// LoginOption is one entry of the sign-in picker: staff first in registration order, admins last.
type LoginOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
