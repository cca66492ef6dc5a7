package schedule

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/aggregation"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/cache"
	"golang.org/x/sync/errgroup"
)

// submitConcurrency bounds the create calls of one multi-day submission.
const submitConcurrency = 4

// DataCache is satisfied by *cache.Cache.
type DataCache interface {
	Get(ctx context.Context) (cache.Snapshot, error)
	Invalidate()
}

type scheduleServiceImpl struct {
	requestRepo shift.ShiftRequestRepository
	shiftRepo   shift.ShiftRepository
	userRepo    user.UserRepository
	cache       DataCache
}

func NewScheduleService(
	requestRepo shift.ShiftRequestRepository,
	shiftRepo shift.ShiftRepository,
	userRepo user.UserRepository,
	cache DataCache,
) shift.ScheduleService {
	return &scheduleServiceImpl{
		requestRepo: requestRepo,
		shiftRepo:   shiftRepo,
		userRepo:    userRepo,
		cache:       cache,
	}
}

// ListRequests implements shift.ScheduleService.
func (s *scheduleServiceImpl) ListRequests(ctx context.Context, filter shift.RequestFilter) ([]shift.ShiftRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shift requests: %w", err)
	}

	requests := snap.Requests
	if filter.Month != "" {
		requests = aggregation.FilterByMonth(requests, filter.Month, aggregation.RequestDate)
	}

	var matched []shift.ShiftRequest
	for _, r := range requests {
		if filter.Date != "" && r.Date != filter.Date {
			continue
		}
		if filter.Status != "" && string(r.Status) != filter.Status {
			continue
		}
		if filter.UserID != "" && r.UserID != filter.UserID {
			continue
		}
		matched = append(matched, r)
	}

	// newest day first, newest submission first within a day
	slices.SortStableFunc(matched, func(a, b shift.ShiftRequest) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return toRequestResponses(matched), nil
}

// GetRequest implements shift.ScheduleService.
func (s *scheduleServiceImpl) GetRequest(ctx context.Context, id string) (shift.ShiftRequestResponse, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftRequestResponse{}, err
	}
	return shift.NewShiftRequestResponse(req), nil
}

// ApproveRequest implements shift.ScheduleService.
func (s *scheduleServiceImpl) ApproveRequest(ctx context.Context, id string) (shift.ShiftRequestResponse, error) {
	return s.transition(ctx, id, shift.ActionApprove)
}

// UnapproveRequest implements shift.ScheduleService.
func (s *scheduleServiceImpl) UnapproveRequest(ctx context.Context, id string) (shift.ShiftRequestResponse, error) {
	return s.transition(ctx, id, shift.ActionUnapprove)
}

func (s *scheduleServiceImpl) transition(ctx context.Context, id string, action shift.RequestAction) (shift.ShiftRequestResponse, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftRequestResponse{}, err
	}

	next, err := req.Transition(action)
	if err != nil {
		return shift.ShiftRequestResponse{}, err
	}
	if next == req.Status {
		return shift.NewShiftRequestResponse(req), nil
	}

	defer s.cache.Invalidate()
	updated, err := s.requestRepo.Update(ctx, id, shift.RequestPatch{Status: &next})
	if err != nil {
		return shift.ShiftRequestResponse{}, fmt.Errorf("%s shift request: %w", action, err)
	}
	return shift.NewShiftRequestResponse(updated), nil
}

// DeleteRequest implements shift.ScheduleService.
func (s *scheduleServiceImpl) DeleteRequest(ctx context.Context, id string) error {
	defer s.cache.Invalidate()
	return s.requestRepo.Delete(ctx, id)
}

// UpdateRequest changes the slot of any request regardless of its status.
func (s *scheduleServiceImpl) UpdateRequest(ctx context.Context, req shift.UpdateRequestRequest) (shift.ShiftRequestResponse, error) {
	req.UserID = ""
	return s.updateRequest(ctx, req)
}

// AdjustRequest implements shift.ScheduleService.
func (s *scheduleServiceImpl) AdjustRequest(ctx context.Context, req shift.AdjustRequestRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	original, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	next, err := original.Transition(shift.ActionApprove)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	defer s.cache.Invalidate()
	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		UserID:      original.UserID,
		UserName:    original.UserName,
		Date:        original.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsConfirmed: true,
		Notes:       req.Notes,
	})
	if err != nil {
		return shift.ShiftResponse{}, fmt.Errorf("create adjusted shift: %w", err)
	}

	if next != original.Status {
		if _, err := s.requestRepo.Update(ctx, original.ID, shift.RequestPatch{Status: &next}); err != nil {
			return shift.ShiftResponse{}, fmt.Errorf("approve adjusted shift request: %w", err)
		}
	}

	return shift.NewShiftResponse(created), nil
}

// CreateRequestFor implements shift.ScheduleService.
func (s *scheduleServiceImpl) CreateRequestFor(ctx context.Context, req shift.CreateRequestRequest) (shift.ShiftRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftRequestResponse{}, err
	}

	owner, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return shift.ShiftRequestResponse{}, err
	}

	defer s.cache.Invalidate()
	created, err := s.requestRepo.Create(ctx, shift.ShiftRequest{
		UserID:    owner.ID,
		UserName:  owner.Name,
		Date:      req.Date,
		TimeSlots: []string{shift.TimeSlot{Start: req.StartTime, End: req.EndTime}.String()},
		Status:    shift.RequestStatus(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		return shift.ShiftRequestResponse{}, err
	}
	return shift.NewShiftRequestResponse(created), nil
}

// ListShifts implements shift.ScheduleService.
func (s *scheduleServiceImpl) ListShifts(ctx context.Context, filter shift.ShiftFilter) ([]shift.ShiftResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shifts: %w", err)
	}

	shifts := aggregation.FilterByMonth(aggregation.ConfirmedShifts(snap.Shifts), filter.Month, aggregation.ShiftDate)
	if filter.UserID != "" {
		shifts = slices.DeleteFunc(shifts, func(sh shift.Shift) bool { return sh.UserID != filter.UserID })
	}
	slices.SortStableFunc(shifts, func(a, b shift.Shift) int {
		if c := cmp.Compare(a.Date, b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.NewShiftResponse(sh))
	}
	return responses, nil
}

// GetShift implements shift.ScheduleService.
func (s *scheduleServiceImpl) GetShift(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.shiftRepo.GetByID(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(sh), nil
}

// CreateShift implements shift.ScheduleService.
func (s *scheduleServiceImpl) CreateShift(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	owner, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	defer s.cache.Invalidate()
	created, err := s.shiftRepo.Create(ctx, shift.Shift{
		UserID:      owner.ID,
		UserName:    owner.Name,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsConfirmed: true,
		Notes:       req.Notes,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(created), nil
}

// UpdateShift implements shift.ScheduleService.
func (s *scheduleServiceImpl) UpdateShift(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	owner, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return shift.ShiftResponse{}, err
	}

	defer s.cache.Invalidate()
	updated, err := s.shiftRepo.Update(ctx, req.ID, shift.ShiftPatch{
		UserID:    &owner.ID,
		UserName:  &owner.Name,
		Date:      &req.Date,
		StartTime: &req.StartTime,
		EndTime:   &req.EndTime,
		Notes:     req.Notes,
	})
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(updated), nil
}

// DeleteShift implements shift.ScheduleService.
func (s *scheduleServiceImpl) DeleteShift(ctx context.Context, id string) error {
	defer s.cache.Invalidate()
	return s.shiftRepo.Delete(ctx, id)
}

// SubmitRequests implements shift.ScheduleService. Each date is created on its own;
// one failing date does not stop the others.
func (s *scheduleServiceImpl) SubmitRequests(ctx context.Context, req shift.SubmitRequestsRequest) (shift.SubmitRequestsResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.SubmitRequestsResponse{}, err
	}

	owner, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return shift.SubmitRequestsResponse{}, err
	}
	slot := shift.TimeSlot{Start: req.StartTime, End: req.EndTime}.String()

	defer s.cache.Invalidate()

	created := make([]*shift.ShiftRequest, len(req.Dates))
	var (
		mu       sync.Mutex
		failures = map[string]string{}
		errs     []error
	)
	var g errgroup.Group
	g.SetLimit(submitConcurrency)
	for i, date := range req.Dates {
		g.Go(func() error {
			r, err := s.requestRepo.Create(ctx, shift.ShiftRequest{
				UserID:    owner.ID,
				UserName:  owner.Name,
				Date:      date,
				TimeSlots: []string{slot},
				Status:    shift.RequestStatusPending,
				Notes:     req.Notes,
			})
			if err != nil {
				slog.Warn("shift request submission failed", "user_id", owner.ID, "date", date, "error", err)
				mu.Lock()
				failures[date] = err.Error()
				errs = append(errs, fmt.Errorf("%s: %w", date, err))
				mu.Unlock()
				return nil
			}
			created[i] = &r
			return nil
		})
	}
	_ = g.Wait()

	resp := shift.SubmitRequestsResponse{
		Failed:   len(failures),
		Requests: []shift.ShiftRequestResponse{},
	}
	for _, r := range created {
		if r != nil {
			resp.Requests = append(resp.Requests, shift.NewShiftRequestResponse(*r))
		}
	}
	resp.Created = len(resp.Requests)
	if len(failures) > 0 {
		resp.Errors = failures
	}

	if resp.Created == 0 {
		return resp, fmt.Errorf("%w: %w", shift.ErrNoRequestsCreated, errors.Join(errs...))
	}
	return resp, nil
}

// ListMyRequests implements shift.ScheduleService.
func (s *scheduleServiceImpl) ListMyRequests(ctx context.Context, userID string, month string) ([]shift.ShiftRequestResponse, error) {
	mine, err := s.myRequests(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(mine), nil
}

// ListMyConfirmed implements shift.ScheduleService.
func (s *scheduleServiceImpl) ListMyConfirmed(ctx context.Context, userID string, month string) ([]shift.ShiftResponse, error) {
	mine, err := s.myRequests(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	responses := []shift.ShiftResponse{}
	for _, r := range mine {
		if !r.IsApproved() {
			continue
		}
		projected := shift.Shift{
			ID:          r.ID,
			UserID:      r.UserID,
			UserName:    r.UserName,
			Date:        r.Date,
			IsConfirmed: true,
			Notes:       r.Notes,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
		if slot, err := r.FirstSlot(); err == nil {
			projected.StartTime, projected.EndTime = slot.Start, slot.End
		}
		responses = append(responses, shift.NewShiftResponse(projected))
	}
	return responses, nil
}

func (s *scheduleServiceImpl) myRequests(ctx context.Context, userID, month string) ([]shift.ShiftRequest, error) {
	if month != "" && !validator.IsValidYearMonth(month) {
		return nil, validator.ValidationErrors{{Field: "month", Message: "month must be in YYYY-MM format"}}
	}

	snap, err := s.cache.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load shift requests: %w", err)
	}

	requests := snap.Requests
	if month != "" {
		requests = aggregation.FilterByMonth(requests, month, aggregation.RequestDate)
	}
	var mine []shift.ShiftRequest
	for _, r := range requests {
		if r.UserID == userID {
			mine = append(mine, r)
		}
	}
	slices.SortStableFunc(mine, func(a, b shift.ShiftRequest) int {
		return cmp.Compare(a.Date, b.Date)
	})
	return mine, nil
}

// UpdateMyRequest implements shift.ScheduleService.
func (s *scheduleServiceImpl) UpdateMyRequest(ctx context.Context, req shift.UpdateRequestRequest) (shift.ShiftRequestResponse, error) {
	if req.UserID == "" {
		return shift.ShiftRequestResponse{}, shift.ErrNotRequestOwner
	}
	return s.updateRequest(ctx, req)
}

// updateRequest applies a slot change. A non-empty req.UserID means the owner is
// editing and only their own pending requests may change.
func (s *scheduleServiceImpl) updateRequest(ctx context.Context, req shift.UpdateRequestRequest) (shift.ShiftRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftRequestResponse{}, err
	}

	existing, err := s.requestRepo.GetByID(ctx, req.ID)
	if err != nil {
		return shift.ShiftRequestResponse{}, err
	}
	if req.UserID != "" {
		if existing.UserID != req.UserID {
			return shift.ShiftRequestResponse{}, shift.ErrNotRequestOwner
		}
		if !existing.IsPending() {
			return shift.ShiftRequestResponse{}, shift.ErrRequestNotEditable
		}
	}

	defer s.cache.Invalidate()
	updated, err := s.requestRepo.Update(ctx, req.ID, shift.RequestPatch{
		TimeSlots: []string{shift.TimeSlot{Start: req.StartTime, End: req.EndTime}.String()},
		Notes:     req.Notes,
	})
	if err != nil {
		return shift.ShiftRequestResponse{}, err
	}
	return shift.NewShiftRequestResponse(updated), nil
}

// DeleteMyRequest implements shift.ScheduleService.
func (s *scheduleServiceImpl) DeleteMyRequest(ctx context.Context, userID, id string) error {
	existing, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return shift.ErrNotRequestOwner
	}
	if !existing.IsPending() {
		return shift.ErrRequestNotEditable
	}

	defer s.cache.Invalidate()
	return s.requestRepo.Delete(ctx, id)
}

func toRequestResponses(requests []shift.ShiftRequest) []shift.ShiftRequestResponse {
	responses := make([]shift.ShiftRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, shift.NewShiftRequestResponse(r))
	}
	return responses
}
