package auth

import (
	"context"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
)

type AuthService interface {
	// LoginOptions lists the accounts offered on the sign-in picker
	LoginOptions(ctx context.Context) ([]LoginOption, error)
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context, accessToken string, expiresAt int64) error
	Me(ctx context.Context, userID string) (user.UserResponse, error)
}
