package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type shiftRequestRepositoryImpl struct {
	db *database.DB
}

func NewShiftRequestRepository(db *database.DB) shift.ShiftRequestRepository {
	return &shiftRequestRepositoryImpl{db: db}
}

const shiftRequestColumns = `id, user_id, user_name, to_char(work_date, 'YYYY-MM-DD'), time_slots, status, notes, created_at, updated_at`

func scanShiftRequest(row pgx.Row) (shift.ShiftRequest, error) {
	var (
		req    shift.ShiftRequest
		status string
	)
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.UserName,
		&req.Date,
		&req.TimeSlots,
		&status,
		&req.Notes,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	req.Status = shift.RequestStatus(status)
	return req, err
}

// List implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) List(ctx context.Context) ([]shift.ShiftRequest, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftRequestColumns+` FROM shift_requests ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list shift requests: %w", err)
	}
	defer rows.Close()

	var requests []shift.ShiftRequest
	for rows.Next() {
		req, err := scanShiftRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// GetByID implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) GetByID(ctx context.Context, id string) (shift.ShiftRequest, error) {
	q := GetQuerier(ctx, r.db)

	req, err := scanShiftRequest(q.QueryRow(ctx, `SELECT `+shiftRequestColumns+` FROM shift_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftRequest{}, shift.ErrRequestNotFound
		}
		return shift.ShiftRequest{}, fmt.Errorf("get shift request %s: %w", id, err)
	}
	return req, nil
}

// Create implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Create(ctx context.Context, req shift.ShiftRequest) (shift.ShiftRequest, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return shift.ShiftRequest{}, fmt.Errorf("generate shift request id: %w", err)
	}
	slots := req.TimeSlots
	if slots == nil {
		slots = []string{}
	}

	query := `
		INSERT INTO shift_requests (id, user_id, user_name, work_date, time_slots, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + shiftRequestColumns

	created, err := scanShiftRequest(q.QueryRow(ctx, query,
		id.String(),
		req.UserID,
		req.UserName,
		req.Date,
		slots,
		string(req.Status),
		req.Notes,
	))
	if err != nil {
		return shift.ShiftRequest{}, fmt.Errorf("create shift request: %w", err)
	}
	return created, nil
}

// Update implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Update(ctx context.Context, id string, patch shift.RequestPatch) (shift.ShiftRequest, error) {
	q := GetQuerier(ctx, r.db)

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	set := func(column string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.UserName != nil {
		set("user_name", *patch.UserName)
	}
	if patch.Date != nil {
		set("work_date", *patch.Date)
	}
	if patch.TimeSlots != nil {
		set("time_slots", patch.TimeSlots)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}

	query := `UPDATE shift_requests SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + shiftRequestColumns

	updated, err := scanShiftRequest(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ShiftRequest{}, shift.ErrRequestNotFound
		}
		return shift.ShiftRequest{}, fmt.Errorf("update shift request %s: %w", id, err)
	}
	return updated, nil
}

// Delete implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift request %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrRequestNotFound
	}
	return nil
}

// RenameUser implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) RenameUser(ctx context.Context, userID, name string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE shift_requests SET user_name = $2, updated_at = NOW() WHERE user_id = $1`, userID, name); err != nil {
		return fmt.Errorf("rename user on shift requests: %w", err)
	}
	return nil
}

// DeleteByUserID implements shift.ShiftRequestRepository.
func (r *shiftRequestRepositoryImpl) DeleteByUserID(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM shift_requests WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete shift requests of user: %w", err)
	}
	return nil
}
