package shift

import (
	"context"
)

// RequestPatch carries a partial update; nil fields are left unchanged.
type RequestPatch struct {
	UserName  *string
	Date      *string
	TimeSlots []string
	Status    *RequestStatus
	Notes     *string
}

// ShiftPatch carries a partial update; nil fields are left unchanged.
type ShiftPatch struct {
	UserID    *string
	UserName  *string
	Date      *string
	StartTime *string
	EndTime   *string
	Notes     *string
}

// ShiftRequestRepository - interface for shift_requests table
type ShiftRequestRepository interface {
	List(ctx context.Context) ([]ShiftRequest, error)
	GetByID(ctx context.Context, id string) (ShiftRequest, error)
	Create(ctx context.Context, request ShiftRequest) (ShiftRequest, error)
	Update(ctx context.Context, id string, patch RequestPatch) (ShiftRequest, error)
	Delete(ctx context.Context, id string) error

	// RenameUser rewrites the denormalised user_name on every request of userID.
	RenameUser(ctx context.Context, userID, name string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// ShiftRepository - interface for shifts table
type ShiftRepository interface {
	List(ctx context.Context) ([]Shift, error)
	GetByID(ctx context.Context, id string) (Shift, error)
	Create(ctx context.Context, s Shift) (Shift, error)
	Update(ctx context.Context, id string, patch ShiftPatch) (Shift, error)
	Delete(ctx context.Context, id string) error

	RenameUser(ctx context.Context, userID, name string) error
	DeleteByUserID(ctx context.Context, userID string) error
}
