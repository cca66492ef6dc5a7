package response

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/tableapi"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Malformed request bodies
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		BadRequest(w, "Invalid request body", nil)
		return
	}

	var cascadeErr *shift.CascadeError
	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrStaffRoleRequired):
		Forbidden(w, "Staff role required")
	case errors.Is(err, user.ErrCannotDeleteSelf):
		BadRequest(w, "You cannot delete your own account", nil)

	// Shift domain errors
	case errors.Is(err, shift.ErrRequestNotFound):
		NotFound(w, "Shift request not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrNotRequestOwner):
		Forbidden(w, "Shift request belongs to another user")
	case errors.Is(err, shift.ErrInvalidTransition):
		Conflict(w, "Shift request cannot move to that status")
	case errors.Is(err, shift.ErrRequestNotEditable):
		Conflict(w, "Only pending shift requests can be changed")
	case errors.Is(err, shift.ErrInvalidTimeSlot):
		BadRequest(w, "Invalid time slot", nil)
	case errors.Is(err, shift.ErrNoRequestsCreated):
		slog.Error("shift request submission failed", "error", err)
		BadGateway(w, "No shift requests could be saved")
	case errors.As(err, &cascadeErr):
		slog.Error("cascade partly applied", "op", cascadeErr.Op, "failed", cascadeErr.Failed, "total", cascadeErr.Total, "error", err)
		PartialFailure(w, "Some related records could not be updated", map[string]int{
			"total":  cascadeErr.Total,
			"failed": cascadeErr.Failed,
		})

	// Storage backend errors
	case tableapi.IsTransport(err), errors.Is(err, context.DeadlineExceeded):
		slog.Error("data store unreachable", "error", err)
		ServiceUnavailable(w, "Data store is unreachable, please retry")
	case isUpstream(err):
		slog.Error("data store returned an error", "error", err)
		BadGateway(w, "Data store returned an unexpected response")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func isUpstream(err error) bool {
	var statusErr *tableapi.StatusError
	var decodeErr *tableapi.DecodeError
	return errors.As(err, &statusErr) || errors.As(err, &decodeErr)
}
