package memory

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RequestsAreCopied(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().ShiftRequests()

	created, err := repo.Create(ctx, shift.ShiftRequest{UserID: "u1", Date: "2025-03-03", TimeSlots: []string{"09:00-12:00"}, Status: shift.RequestStatusPending})
	require.NoError(t, err)
	created.TimeSlots[0] = "00:00-01:00"

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "09:00-12:00", got.TimeSlots[0])
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Users().GetByID(ctx, "x")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, store.Shifts().Delete(ctx, "x"), shift.ErrShiftNotFound)
	_, err = store.ShiftRequests().Update(ctx, "x", shift.RequestPatch{})
	assert.ErrorIs(t, err, shift.ErrRequestNotFound)
}

func TestStore_Cascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := store.Shifts().Create(ctx, shift.Shift{UserID: "u1", UserName: "Sato"})
	require.NoError(t, err)
	_, err = store.Shifts().Create(ctx, shift.Shift{UserID: "u2", UserName: "Ito"})
	require.NoError(t, err)

	require.NoError(t, store.Shifts().RenameUser(ctx, "u1", "Suzuki"))
	require.NoError(t, store.Shifts().DeleteByUserID(ctx, "u2"))

	shifts, err := store.Shifts().List(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "Suzuki", shifts[0].UserName)
}
