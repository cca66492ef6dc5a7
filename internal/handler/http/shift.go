package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/auth"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	// Admin: shift requests
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	UnapproveRequest(w http.ResponseWriter, r *http.Request)
	AdjustRequest(w http.ResponseWriter, r *http.Request)

	// Admin: confirmed shifts
	ListShifts(w http.ResponseWriter, r *http.Request)
	GetShift(w http.ResponseWriter, r *http.Request)
	CreateShift(w http.ResponseWriter, r *http.Request)
	UpdateShift(w http.ResponseWriter, r *http.Request)
	DeleteShift(w http.ResponseWriter, r *http.Request)

	// Staff
	ListMyRequests(w http.ResponseWriter, r *http.Request)
	SubmitRequests(w http.ResponseWriter, r *http.Request)
	UpdateMyRequest(w http.ResponseWriter, r *http.Request)
	DeleteMyRequest(w http.ResponseWriter, r *http.Request)
	ListMyShifts(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	scheduleService shift.ScheduleService
}

func NewShiftHandler(scheduleService shift.ScheduleService) ShiftHandler {
	return &shiftHandlerImpl{
		scheduleService: scheduleService,
	}
}

// ==================== ADMIN: SHIFT REQUESTS ====================

func (h *shiftHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := shift.RequestFilter{
		Date:   query.Get("date"),
		Month:  query.Get("month"),
		Status: query.Get("status"),
		UserID: query.Get("user_id"),
	}

	result, err := h.scheduleService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result), Month: filter.Month})
}

func (h *shiftHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.scheduleService.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.scheduleService.CreateRequestFor(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift request created successfully", result)
}

func (h *shiftHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.UserID = ""

	result, err := h.scheduleService.UpdateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request updated successfully", result)
}

func (h *shiftHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.scheduleService.DeleteRequest(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request deleted successfully", nil)
}

func (h *shiftHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.scheduleService.ApproveRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request approved", result)
}

func (h *shiftHandlerImpl) UnapproveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.scheduleService.UnapproveRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request returned to pending", result)
}

func (h *shiftHandlerImpl) AdjustRequest(w http.ResponseWriter, r *http.Request) {
	var req shift.AdjustRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.scheduleService.AdjustRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift request adjusted and approved", result)
}

// ==================== ADMIN: SHIFTS ====================

func (h *shiftHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	filter := shift.ShiftFilter{
		Month:  r.URL.Query().Get("month"),
		UserID: r.URL.Query().Get("user_id"),
	}

	result, err := h.scheduleService.ListShifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result), Month: filter.Month})
}

func (h *shiftHandlerImpl) GetShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.scheduleService.GetShift(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *shiftHandlerImpl) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.scheduleService.CreateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift created successfully", result)
}

func (h *shiftHandlerImpl) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.scheduleService.UpdateShift(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift updated successfully", result)
}

func (h *shiftHandlerImpl) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.scheduleService.DeleteShift(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted successfully", nil)
}

// ==================== STAFF ====================

func (h *shiftHandlerImpl) ListMyRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	month := r.URL.Query().Get("month")

	result, err := h.scheduleService.ListMyRequests(r.Context(), p.UserID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result), Month: month})
}

func (h *shiftHandlerImpl) SubmitRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req shift.SubmitRequestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.UserID = p.UserID

	result, err := h.scheduleService.SubmitRequests(r.Context(), req)
	if err != nil {
		if errors.Is(err, shift.ErrNoRequestsCreated) {
			slog.Error("SubmitRequests saved nothing", "user_id", p.UserID, "error", err)
			response.PartialFailure(w, "No shift requests could be saved", result)
			return
		}
		response.HandleError(w, err)
		return
	}

	message := fmt.Sprintf("%d shift requests submitted", result.Created)
	if result.Failed > 0 {
		message = fmt.Sprintf("%d shift requests submitted, %d failed", result.Created, result.Failed)
	}
	response.Created(w, message, result)
}

func (h *shiftHandlerImpl) UpdateMyRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req shift.UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.HandleError(w, err)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.UserID = p.UserID

	result, err := h.scheduleService.UpdateMyRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request updated successfully", result)
}

func (h *shiftHandlerImpl) DeleteMyRequest(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	if err := h.scheduleService.DeleteMyRequest(r.Context(), p.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift request deleted successfully", nil)
}

func (h *shiftHandlerImpl) ListMyShifts(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}
	month := r.URL.Query().Get("month")

	result, err := h.scheduleService.ListMyConfirmed(r.Context(), p.UserID, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result), Month: month})
}
