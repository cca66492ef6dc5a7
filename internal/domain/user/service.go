package user

import (
	"context"
)

// UserService defines business logic for user management (admin only)
type UserService interface {
	// ListUsers returns staff ordered by registration, admins last
	ListUsers(ctx context.Context) ([]UserResponse, error)

	GetUser(ctx context.Context, id string) (UserResponse, error)

	CreateUser(ctx context.Context, req CreateUserRequest) (UserResponse, error)

	// UpdateUser renames cascade to the user_name copies on shifts and requests
	UpdateUser(ctx context.Context, req UpdateUserRequest) (UserResponse, error)

	// DeleteUser removes the user's shifts and requests, then the user
	DeleteUser(ctx context.Context, id string, actorID string) error
}
