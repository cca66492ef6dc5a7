package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
)

// ==========================================
// DEFAULT ACCOUNTS
// ==========================================

// DefaultUser is an account created when the service starts on an empty in-memory store.
type DefaultUser struct {
	Name string
	Role user.Role
}

// GetDefaultUsers returns one admin and two staff members, in registration order.
func GetDefaultUsers() []DefaultUser {
	return []DefaultUser{
		{Name: "Admin", Role: user.RoleAdmin},
		{Name: "Staff A", Role: user.RoleStaff},
		{Name: "Staff B", Role: user.RoleStaff},
	}
}

// SeedDefaultUsers creates the default accounts, all sharing passwordHash, and
// returns their IDs by name. Registration times are one second apart so the
// sign-in picker order is stable.
func SeedDefaultUsers(ctx context.Context, repo user.UserRepository, passwordHash string, now time.Time) (map[string]string, error) {
	ids := make(map[string]string)
	for i, d := range GetDefaultUsers() {
		created, err := repo.Create(ctx, user.User{
			Name:      d.Name,
			Role:      d.Role,
			Password:  passwordHash,
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to seed user %q: %w", d.Name, err)
		}
		ids[d.Name] = created.ID
	}
	return ids, nil
}
