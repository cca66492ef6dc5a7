package tableapi

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	api "github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/tableapi"
)

type shiftRequestRepositoryImpl struct {
	client *api.Client
}

func NewShiftRequestRepository(client *api.Client) shift.ShiftRequestRepository {
	return &shiftRequestRepositoryImpl{client: client}
}

// List implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) List(ctx context.Context) ([]shift.ShiftRequest, error) {
	var rows []shiftRequestRecord
	if err := r.client.List(ctx, api.TableShiftRequests, &rows); err != nil {
		return nil, fmt.Errorf("list shift requests: %w", err)
	}

	requests := make([]shift.ShiftRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, row.toEntity())
	}
	return requests, nil
}

// GetByID implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) GetByID(ctx context.Context, id string) (shift.ShiftRequest, error) {
	var row shiftRequestRecord
	if err := r.client.Get(ctx, api.TableShiftRequests, id, &row); err != nil {
		if api.IsNotFound(err) {
			return shift.ShiftRequest{}, shift.ErrRequestNotFound
		}
		return shift.ShiftRequest{}, fmt.Errorf("get shift request %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// Create implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Create(ctx context.Context, req shift.ShiftRequest) (shift.ShiftRequest, error) {
	slots := req.TimeSlots
	if slots == nil {
		slots = []string{}
	}
	body := createShiftRequestBody{
		UserID:    req.UserID,
		UserName:  req.UserName,
		Date:      req.Date,
		TimeSlots: slots,
		Status:    string(req.Status),
		Notes:     req.Notes,
	}

	var row shiftRequestRecord
	if err := r.client.Create(ctx, api.TableShiftRequests, body, &row); err != nil {
		return shift.ShiftRequest{}, fmt.Errorf("create shift request: %w", err)
	}
	return row.toEntity(), nil
}

// Update implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Update(ctx context.Context, id string, patch shift.RequestPatch) (shift.ShiftRequest, error) {
	var row shiftRequestRecord
	if err := r.client.Patch(ctx, api.TableShiftRequests, id, requestPatchBody(patch), &row); err != nil {
		if api.IsNotFound(err) {
			return shift.ShiftRequest{}, shift.ErrRequestNotFound
		}
		return shift.ShiftRequest{}, fmt.Errorf("update shift request %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// Delete implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, api.TableShiftRequests, id); err != nil {
		if api.IsNotFound(err) {
			return shift.ErrRequestNotFound
		}
		return fmt.Errorf("delete shift request %s: %w", id, err)
	}
	return nil
}

// RenameUser implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) RenameUser(ctx context.Context, userID, name string) error {
	ids, err := r.idsOfUser(ctx, userID)
	if err != nil {
		return err
	}
	body := map[string]string{"user_name": name}
	return fanOut(ctx, "rename user on shift requests", ids, func(ctx context.Context, id string) error {
		return r.client.Patch(ctx, api.TableShiftRequests, id, body, nil)
	})
}

// DeleteByUserID implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := r.idsOfUser(ctx, userID)
	if err != nil {
		return err
	}
	return fanOut(ctx, "delete shift requests of user", ids, func(ctx context.Context, id string) error {
		err := r.client.Delete(ctx, api.TableShiftRequests, id)
		if api.IsNotFound(err) {
			return nil
		}
		return err
	})
}

func (r *shiftRequestRepositoryImpl) idsOfUser(ctx context.Context, userID string) ([]string, error) {
	requests, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, req := range requests {
		if req.UserID == userID {
			ids = append(ids, req.ID)
		}
	}
	return ids, nil
}

func requestPatchBody(p shift.RequestPatch) map[string]any {
	body := make(map[string]any, 5)
	if p.UserName != nil {
		body["user_name"] = *p.UserName
	}
	if p.Date != nil {
		body["date"] = *p.Date
	}
	if p.TimeSlots != nil {
		body["time_slots"] = p.TimeSlots
	}
	if p.Status != nil {
		body["status"] = string(*p.Status)
	}
	if p.Notes != nil {
		body["notes"] = *p.Notes
	}
	return body
}
