package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/database"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/shift-scheduler-go/internal/service/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/cache"
	calendarService "github.com/cmlabs-hris/shift-scheduler-go/internal/service/calendar"
	scheduleService "github.com/cmlabs-hris/shift-scheduler-go/internal/service/schedule"
	userService "github.com/cmlabs-hris/shift-scheduler-go/internal/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testApp struct {
	t       *testing.T
	store   *memory.Store
	handler http.Handler
	admin   user.User
	staff   user.User
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	adminHash, err := userService.HashPassword("admin-pw")
	require.NoError(t, err)
	admin, err := store.Users().Create(ctx, user.User{Name: "Boss", Role: user.RoleAdmin, Password: adminHash})
	require.NoError(t, err)
	staff, err := store.Users().Create(ctx, user.User{Name: "Sato", Role: user.RoleStaff, Password: "staff-pw"})
	require.NoError(t, err)

	jwtService, err := jwt.NewJWTService(handlerTestSecret, "1h")
	require.NoError(t, err)
	dataCache := cache.New(store.Users(), store.Shifts(), store.ShiftRequests(), cache.WithTTL(time.Hour))

	handlers := Handlers{
		Auth:     NewAuthHandler(authService.NewAuthService(store.Users(), jwtService)),
		Shift:    NewShiftHandler(scheduleService.NewScheduleService(store.ShiftRequests(), store.Shifts(), store.Users(), dataCache)),
		User:     NewUserHandler(userService.NewUserService(store.Users(), store.Shifts(), store.ShiftRequests(), database.NoopTransactor(), dataCache)),
		Calendar: NewCalendarHandler(calendarService.NewCalendarService(dataCache)),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testApp{
		t:       t,
		store:   store,
		handler: NewRouter(logger, []string{"http://localhost:3000"}, jwtService, handlers),
		admin:   admin,
		staff:   staff,
	}
}

func (a *testApp) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (a *testApp) login(userID, password string) string {
	a.t.Helper()
	rec, env := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"user_id": userID, "password": password})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &token))
	return token.AccessToken
}

func TestAuthRoutes(t *testing.T) {
	app := newTestApp(t)

	rec, env := app.do(http.MethodGet, "/api/v1/auth/login-options", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var options []map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &options))
	require.Len(t, options, 2)
	assert.Equal(t, "Sato", options[0]["name"])
	assert.Equal(t, "Boss", options[1]["name"])
	assert.NotContains(t, rec.Body.String(), "password")

	rec, env = app.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"user_id": app.staff.ID, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, env = app.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "user_id")

	token := app.login(app.staff.ID, "staff-pw")
	rec, env = app.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), app.staff.ID)

	rec, _ = app.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = app.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleSeparation(t *testing.T) {
	app := newTestApp(t)
	staffToken := app.login(app.staff.ID, "staff-pw")
	adminToken := app.login(app.admin.ID, "admin-pw")

	rec, _ := app.do(http.MethodGet, "/api/v1/admin/requests", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = app.do(http.MethodGet, "/api/v1/me/requests", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = app.do(http.MethodGet, "/api/v1/admin/requests", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestLifecycle(t *testing.T) {
	app := newTestApp(t)
	staffToken := app.login(app.staff.ID, "staff-pw")
	adminToken := app.login(app.admin.ID, "admin-pw")

	rec, env := app.do(http.MethodPost, "/api/v1/me/requests", staffToken, map[string]any{
		"dates":      []string{"2025-03-03", "2025-03-04"},
		"start_time": "09:00",
		"end_time":   "12:30",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var submitted shift.SubmitRequestsResponse
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, 2, submitted.Created)
	assert.Zero(t, submitted.Failed)

	rec, env = app.do(http.MethodGet, "/api/v1/admin/requests?status=pending&month=2025-03", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending []shift.ShiftRequestResponse
	require.NoError(t, json.Unmarshal(env.Data, &pending))
	require.Len(t, pending, 2)
	assert.Equal(t, "2025-03-04", pending[0].Date, "newest day first")

	id := pending[0].ID
	rec, env = app.do(http.MethodPost, "/api/v1/admin/requests/"+id+"/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"approved"`)

	// approved requests are no longer editable by their owner
	rec, _ = app.do(http.MethodPatch, "/api/v1/me/requests/"+id, staffToken, map[string]string{"start_time": "10:00", "end_time": "11:00"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = app.do(http.MethodGet, "/api/v1/me/shifts?month=2025-03", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var confirmed []shift.ShiftResponse
	require.NoError(t, json.Unmarshal(env.Data, &confirmed))
	require.Len(t, confirmed, 1)
	assert.Equal(t, "09:00", confirmed[0].StartTime)
	assert.Equal(t, "12:30", confirmed[0].EndTime)

	rec, env = app.do(http.MethodGet, "/api/v1/me/calendar?month=2025-03", staffToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Cells []struct {
			Date    string            `json:"date"`
			Records []json.RawMessage `json:"records"`
		} `json:"cells"`
		Weeks []struct {
			StartDay      int     `json:"start_day"`
			PendingHours  float64 `json:"pending_hours"`
			ApprovedHours float64 `json:"approved_hours"`
		} `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Weeks, 6)
	assert.Equal(t, 2, view.Weeks[1].StartDay)
	assert.InDelta(t, 3.5, view.Weeks[1].PendingHours, 1e-9)
	assert.InDelta(t, 3.5, view.Weeks[1].ApprovedHours, 1e-9)

	rec, _ = app.do(http.MethodDelete, "/api/v1/me/requests/"+pending[1].ID, staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = app.do(http.MethodGet, "/api/v1/admin/requests/"+pending[1].ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminShiftsAndUsers(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.login(app.admin.ID, "admin-pw")

	rec, _ := app.do(http.MethodPost, "/api/v1/admin/shifts", adminToken, map[string]string{
		"user_id":    app.staff.ID,
		"date":       "2025-03-10",
		"start_time": "13:00",
		"end_time":   "12:00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, env := app.do(http.MethodPost, "/api/v1/admin/shifts", adminToken, map[string]string{
		"user_id":    app.staff.ID,
		"date":       "2025-03-10",
		"start_time": "13:00",
		"end_time":   "17:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created shift.ShiftResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Sato", created.UserName)

	rec, env = app.do(http.MethodPatch, "/api/v1/admin/users/"+app.staff.ID, adminToken, map[string]string{"name": "Suzuki"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = app.do(http.MethodGet, "/api/v1/admin/shifts/"+created.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"user_name":"Suzuki"`)

	rec, env = app.do(http.MethodGet, "/api/v1/admin/calendar/approved?month=2025-03", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Suzuki")

	rec, _ = app.do(http.MethodDelete, "/api/v1/admin/users/"+app.admin.ID, adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = app.do(http.MethodDelete, "/api/v1/admin/users/"+app.staff.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = app.do(http.MethodGet, "/api/v1/admin/shifts/"+created.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarValidationAndInfraRoutes(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.login(app.admin.ID, "admin-pw")

	rec, env := app.do(http.MethodGet, "/api/v1/admin/calendar/pending?month=2025-13", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "month")

	rec, _ = app.do(http.MethodPost, "/api/v1/admin/shifts", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = app.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = app.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shift_scheduler_http_requests_total")
}
