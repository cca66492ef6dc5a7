package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/tableapi"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "month", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad json", &json.SyntaxError{}, http.StatusBadRequest, "BAD_REQUEST"},
		{"credentials", auth.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrapped not found", fmt.Errorf("get: %w", shift.ErrRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"user not found", user.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"not owner", shift.ErrNotRequestOwner, http.StatusForbidden, "FORBIDDEN"},
		{"not editable", shift.ErrRequestNotEditable, http.StatusConflict, "CONFLICT"},
		{"cascade", &shift.CascadeError{Op: "rename", Total: 3, Failed: 1, Errs: []error{errors.New("boom")}}, http.StatusBadGateway, "PARTIAL_FAILURE"},
		{"transport", &tableapi.TransportError{Method: "GET", URL: "x", Err: errors.New("refused")}, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"deadline", fmt.Errorf("list: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"upstream status", &tableapi.StatusError{Method: "GET", URL: "x", StatusCode: 500}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"upstream body", &tableapi.DecodeError{URL: "x", Err: errors.New("eof")}, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"unknown", errors.New("mystery"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}
