package shift

import (
	"context"
)

// ScheduleService defines the admin and staff operations on shift requests and shifts.
// Every mutation invalidates the shared data cache before it returns.
type ScheduleService interface {
	// Admin
	ListRequests(ctx context.Context, filter RequestFilter) ([]ShiftRequestResponse, error)
	GetRequest(ctx context.Context, id string) (ShiftRequestResponse, error)
	ApproveRequest(ctx context.Context, id string) (ShiftRequestResponse, error)
	UnapproveRequest(ctx context.Context, id string) (ShiftRequestResponse, error)
	DeleteRequest(ctx context.Context, id string) error
	// UpdateRequest changes the slot of a request in any status
	UpdateRequest(ctx context.Context, req UpdateRequestRequest) (ShiftRequestResponse, error)
	// AdjustRequest creates a confirmed shift with the adjusted times, then approves the request
	AdjustRequest(ctx context.Context, req AdjustRequestRequest) (ShiftResponse, error)
	CreateRequestFor(ctx context.Context, req CreateRequestRequest) (ShiftRequestResponse, error)

	ListShifts(ctx context.Context, filter ShiftFilter) ([]ShiftResponse, error)
	GetShift(ctx context.Context, id string) (ShiftResponse, error)
	CreateShift(ctx context.Context, req CreateShiftRequest) (ShiftResponse, error)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	DeleteShift(ctx context.Context, id string) error

	// Staff
	SubmitRequests(ctx context.Context, req SubmitRequestsRequest) (SubmitRequestsResponse, error)
	ListMyRequests(ctx context.Context, userID string, month string) ([]ShiftRequestResponse, error)
	// ListMyConfirmed projects the user's approved requests as confirmed shifts
	ListMyConfirmed(ctx context.Context, userID string, month string) ([]ShiftResponse, error)
	UpdateMyRequest(ctx context.Context, req UpdateRequestRequest) (ShiftRequestResponse, error)
	DeleteMyRequest(ctx context.Context, userID, id string) error
}
