package http

import (
	"net/http"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/calendar"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	Pending(w http.ResponseWriter, r *http.Request)
	Approved(w http.ResponseWriter, r *http.Request)
	Staff(w http.ResponseWriter, r *http.Request)
	Mine(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) CalendarHandler {
	return &calendarHandlerImpl{calendarService: calendarService}
}

func (h *calendarHandlerImpl) Pending(w http.ResponseWriter, r *http.Request) {
	view, err := h.calendarService.PendingCalendar(r.Context(), calendar.MonthQuery{Month: r.URL.Query().Get("month")})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

func (h *calendarHandlerImpl) Approved(w http.ResponseWriter, r *http.Request) {
	view, err := h.calendarService.ApprovedCalendar(r.Context(), calendar.MonthQuery{Month: r.URL.Query().Get("month")})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}

// Staff is the admin's per-staff management view.
func (h *calendarHandlerImpl) Staff(w http.ResponseWriter, r *http.Request) {
	h.staffCalendar(w, r, chi.URLParam(r, "userID"))
}

// Mine is the signed-in staff member's own calendar.
func (h *calendarHandlerImpl) Mine(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	h.staffCalendar(w, r, p.UserID)
}

func (h *calendarHandlerImpl) staffCalendar(w http.ResponseWriter, r *http.Request, userID string) {
	view, err := h.calendarService.StaffCalendar(r.Context(), calendar.MonthQuery{
		Month:  r.URL.Query().Get("month"),
		UserID: userID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, view)
}
