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

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `id, user_id, user_name, to_char(work_date, 'YYYY-MM-DD'), start_time, end_time, is_confirmed, notes, created_at, updated_at`

func scanShift(row pgx.Row) (shift.Shift, error) {
	var s shift.Shift
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.UserName,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.IsConfirmed,
		&s.Notes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// List implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) List(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+shiftColumns+` FROM shifts ORDER BY work_date ASC, start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanShift(q.QueryRow(ctx, `SELECT `+shiftColumns+` FROM shifts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("get shift %s: %w", id, err)
	}
	return s, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return shift.Shift{}, fmt.Errorf("generate shift id: %w", err)
	}

	query := `
		INSERT INTO shifts (id, user_id, user_name, work_date, start_time, end_time, is_confirmed, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query,
		id.String(),
		s.UserID,
		s.UserName,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.IsConfirmed,
		s.Notes,
	))
	if err != nil {
		return shift.Shift{}, fmt.Errorf("create shift: %w", err)
	}
	return created, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Update(ctx context.Context, id string, patch shift.ShiftPatch) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	set := func(column string, v *string) {
		if v != nil {
			args = append(args, *v)
			sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
		}
	}
	set("user_id", patch.UserID)
	set("user_name", patch.UserName)
	set("work_date", patch.Date)
	set("start_time", patch.StartTime)
	set("end_time", patch.EndTime)
	set("notes", patch.Notes)

	query := `UPDATE shifts SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + shiftColumns

	updated, err := scanShift(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("update shift %s: %w", id, err)
	}
	return updated, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shift %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrShiftNotFound
	}
	return nil
}

// RenameUser implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) RenameUser(ctx context.Context, userID, name string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE shifts SET user_name = $2, updated_at = NOW() WHERE user_id = $1`, userID, name); err != nil {
		return fmt.Errorf("rename user on shifts: %w", err)
	}
	return nil
}

// DeleteByUserID implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) DeleteByUserID(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM shifts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete shifts of user: %w", err)
	}
	return nil
}
