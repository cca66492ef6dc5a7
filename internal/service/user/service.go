package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/database"
	"golang.org/x/crypto/bcrypt"
)

// Invalidator is satisfied by *cache.Cache.
type Invalidator interface {
	Invalidate()
}

type UserServiceImpl struct {
	user.UserRepository
	shiftRepo   shift.ShiftRepository
	requestRepo shift.ShiftRequestRepository
	tx          database.Transactor
	cache       Invalidator
}

func NewUserService(
	userRepository user.UserRepository,
	shiftRepo shift.ShiftRepository,
	requestRepo shift.ShiftRequestRepository,
	tx database.Transactor,
	cache Invalidator,
) user.UserService {
	return &UserServiceImpl{
		UserRepository: userRepository,
		shiftRepo:      shiftRepo,
		requestRepo:    requestRepo,
		tx:             tx,
		cache:          cache,
	}
}

// HashPassword returns the bcrypt hash stored for a new or changed password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SortForPicker orders staff by registration and puts admins last.
func SortForPicker(users []user.User) {
	slices.SortStableFunc(users, func(a, b user.User) int {
		if a.IsAdmin() != b.IsAdmin() {
			if a.IsAdmin() {
				return 1
			}
			return -1
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
}

// ListUsers implements user.UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	SortForPicker(users)

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u))
	}
	return responses, nil
}

// GetUser implements user.UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// CreateUser implements user.UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	defer s.cache.Invalidate()
	created, err := s.UserRepository.Create(ctx, user.User{
		Name:     req.Name,
		Role:     user.Role(req.Role),
		Password: hashed,
	})
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}
	return user.NewUserResponse(created), nil
}

// UpdateUser implements user.UserService. A name change is copied onto every shift
// and request of the user in the same unit of work.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	existing, err := s.UserRepository.GetByID(ctx, req.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	if req.Password != nil {
		hashed, err := HashPassword(*req.Password)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
		req.Password = &hashed
	}
	renamed := req.Name != nil && *req.Name != existing.Name

	defer s.cache.Invalidate()

	var updated user.User
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.UserRepository.Update(ctx, req)
		if err != nil {
			return err
		}
		if !renamed {
			return nil
		}
		return errors.Join(
			s.shiftRepo.RenameUser(ctx, updated.ID, updated.Name),
			s.requestRepo.RenameUser(ctx, updated.ID, updated.Name),
		)
	})
	if err != nil {
		var cascadeErr *shift.CascadeError
		if errors.As(err, &cascadeErr) {
			slog.Error("user rename only partly applied", "user_id", req.ID, "error", err)
		}
		return user.UserResponse{}, err
	}

	return user.NewUserResponse(updated), nil
}

// DeleteUser implements user.UserService. The user row is only removed once every
// shift and request of the user is gone.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id string, actorID string) error {
	if id == actorID {
		return user.ErrCannotDeleteSelf
	}
	if _, err := s.UserRepository.GetByID(ctx, id); err != nil {
		return err
	}

	defer s.cache.Invalidate()

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := errors.Join(
			s.shiftRepo.DeleteByUserID(ctx, id),
			s.requestRepo.DeleteByUserID(ctx, id),
		); err != nil {
			return err
		}
		return s.UserRepository.Delete(ctx, id)
	})
	if err != nil {
		slog.Error("failed to delete user", "user_id", id, "error", err)
		return err
	}
	return nil
}
