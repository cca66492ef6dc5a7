package tableapi

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	api "github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/tableapi"
)

type userRepositoryImpl struct {
	client *api.Client
}

func NewUserRepository(client *api.Client) user.UserRepository {
	return &userRepositoryImpl{client: client}
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	var rows []userRecord
	if err := r.client.List(ctx, api.TableUsers, &rows); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toEntity())
	}
	return users, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	var row userRecord
	if err := r.client.Get(ctx, api.TableUsers, id, &row); err != nil {
		if api.IsNotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return row.toEntity(), nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	body := createUserBody{
		Name:     newUser.Name,
		Role:     string(newUser.Role),
		Password: newUser.Password,
	}

	var row userRecord
	if err := r.client.Create(ctx, api.TableUsers, body, &row); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	return row.toEntity(), nil
}

// Update implements user.UserRepository. The password, when present, must already be hashed.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	body := make(map[string]string, 3)
	if req.Name != nil {
		body["name"] = *req.Name
	}
	if req.Password != nil {
		body["password"] = *req.Password
	}
	if req.Role != nil {
		body["role"] = *req.Role
	}

	var row userRecord
	if err := r.client.Patch(ctx, api.TableUsers, req.ID, body, &row); err != nil {
		if api.IsNotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("update user %s: %w", req.ID, err)
	}
	return row.toEntity(), nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, api.TableUsers, id); err != nil {
		if api.IsNotFound(err) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return nil
}
