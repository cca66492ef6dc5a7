package tableapi

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	api "github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/tableapi"
)

type shiftRepositoryImpl struct {
	client *api.Client
}

func NewShiftRepository(client *api.Client) shift.ShiftRepository {
	return &shiftRepositoryImpl{client: client}
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	var rows []shiftRecord
	if err := r.client.List(ctx, api.TableShifts, &rows); err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}

	shifts := make([]shift.Shift, 0, len(rows))
	for _, row := range rows {
		shifts = append(shifts, row.toEntity())
	}
	return shifts, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	var row shiftRecord
	if err := r.client.Get(ctx, api.TableShifts, id, &row); err != nil {
		if api.IsNotFound(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("get shift %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	body := createShiftBody{
		UserID:      s.UserID,
		UserName:    s.UserName,
		Date:        s.Date,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsConfirmed: s.IsConfirmed,
		Notes:       s.Notes,
	}

	var row shiftRecord
	if err := r.client.Create(ctx, api.TableShifts, body, &row); err != nil {
		return shift.Shift{}, fmt.Errorf("create shift: %w", err)
	}
	return row.toEntity(), nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, id string, patch shift.ShiftPatch) (shift.Shift, error) {
	var row shiftRecord
	if err := r.client.Patch(ctx, api.TableShifts, id, shiftPatchBody(patch), &row); err != nil {
		if api.IsNotFound(err) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("update shift %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, api.TableShifts, id); err != nil {
		if api.IsNotFound(err) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("delete shift %s: %w", id, err)
	}
	return nil
}

// RenameUser implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) RenameUser(ctx context.Context, userID, name string) error {
	ids, err := r.idsOfUser(ctx, userID)
	if err != nil {
		return err
	}
	body := map[string]string{"user_name": name}
	return fanOut(ctx, "rename user on shifts", ids, func(ctx context.Context, id string) error {
		return r.client.Patch(ctx, api.TableShifts, id, body, nil)
	})
}

// DeleteByUserID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) DeleteByUserID(ctx context.Context, userID string) error {
	ids, err := r.idsOfUser(ctx, userID)
	if err != nil {
		return err
	}
	return fanOut(ctx, "delete shifts of user", ids, func(ctx context.Context, id string) error {
		err := r.client.Delete(ctx, api.TableShifts, id)
		if api.IsNotFound(err) {
			return nil
		}
		return err
	})
}

func (r *shiftRepositoryImpl) idsOfUser(ctx context.Context, userID string) ([]string, error) {
	shifts, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, s := range shifts {
		if s.UserID == userID {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func shiftPatchBody(p shift.ShiftPatch) map[string]string {
	body := make(map[string]string, 6)
	if p.UserID != nil {
		body["user_id"] = *p.UserID
	}
	if p.UserName != nil {
		body["user_name"] = *p.UserName
	}
	if p.Date != nil {
		body["date"] = *p.Date
	}
	if p.StartTime != nil {
		body["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		body["end_time"] = *p.EndTime
	}
	if p.Notes != nil {
		body["notes"] = *p.Notes
	}
	return body
}
