// Package memory is an in-process backend used for local development and tests.
// Nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/google/uuid"
)

// Store holds the three tables behind one lock.
type Store struct {
	mu       sync.RWMutex
	users    []user.User
	shifts   []shift.Shift
	requests []shift.ShiftRequest
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Users() user.UserRepository                  { return userRepository{s} }
func (s *Store) Shifts() shift.ShiftRepository               { return shiftRepository{s} }
func (s *Store) ShiftRequests() shift.ShiftRequestRepository { return shiftRequestRepository{s} }

type userRepository struct{ s *Store }

func (r userRepository) List(ctx context.Context) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.users), nil
}

func (r userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := slices.IndexFunc(r.s.users, func(u user.User) bool { return u.ID == id })
	if i < 0 {
		return user.User{}, user.ErrUserNotFound
	}
	return r.s.users[i], nil
}

func (r userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if newUser.ID == "" {
		newUser.ID = uuid.NewString()
	}
	if newUser.CreatedAt.IsZero() {
		newUser.CreatedAt = r.s.now()
	}
	r.s.users = append(r.s.users, newUser)
	return newUser, nil
}

func (r userRepository) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := slices.IndexFunc(r.s.users, func(u user.User) bool { return u.ID == req.ID })
	if i < 0 {
		return user.User{}, user.ErrUserNotFound
	}
	u := &r.s.users[i]
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Password != nil {
		u.Password = *req.Password
	}
	if req.Role != nil {
		u.Role = user.Role(*req.Role)
	}
	return *u, nil
}

func (r userRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.users)
	r.s.users = slices.DeleteFunc(r.s.users, func(u user.User) bool { return u.ID == id })
	if len(r.s.users) == n {
		return user.ErrUserNotFound
	}
	return nil
}

type shiftRepository struct{ s *Store }

func (r shiftRepository) List(ctx context.Context) ([]shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return slices.Clone(r.s.shifts), nil
}

func (r shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := slices.IndexFunc(r.s.shifts, func(sh shift.Shift) bool { return sh.ID == id })
	if i < 0 {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	return r.s.shifts[i], nil
}

func (r shiftRepository) Create(ctx context.Context, sh shift.Shift) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sh.ID == "" {
		sh.ID = uuid.NewString()
	}
	sh.CreatedAt = r.s.now()
	sh.UpdatedAt = sh.CreatedAt
	r.s.shifts = append(r.s.shifts, sh)
	return sh, nil
}

func (r shiftRepository) Update(ctx context.Context, id string, patch shift.ShiftPatch) (shift.Shift, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := slices.IndexFunc(r.s.shifts, func(sh shift.Shift) bool { return sh.ID == id })
	if i < 0 {
		return shift.Shift{}, shift.ErrShiftNotFound
	}
	sh := &r.s.shifts[i]
	assign(&sh.UserID, patch.UserID)
	assign(&sh.UserName, patch.UserName)
	assign(&sh.Date, patch.Date)
	assign(&sh.StartTime, patch.StartTime)
	assign(&sh.EndTime, patch.EndTime)
	assign(&sh.Notes, patch.Notes)
	sh.UpdatedAt = r.s.now()
	return *sh, nil
}

func (r shiftRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.shifts)
	r.s.shifts = slices.DeleteFunc(r.s.shifts, func(sh shift.Shift) bool { return sh.ID == id })
	if len(r.s.shifts) == n {
		return shift.ErrShiftNotFound
	}
	return nil
}

func (r shiftRepository) RenameUser(ctx context.Context, userID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.shifts {
		if r.s.shifts[i].UserID == userID {
			r.s.shifts[i].UserName = name
		}
	}
	return nil
}

func (r shiftRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.shifts = slices.DeleteFunc(r.s.shifts, func(sh shift.Shift) bool { return sh.UserID == userID })
	return nil
}

type shiftRequestRepository struct{ s *Store }

func cloneRequest(r shift.ShiftRequest) shift.ShiftRequest {
	r.TimeSlots = slices.Clone(r.TimeSlots)
	return r
}

func (r shiftRequestRepository) List(ctx context.Context) ([]shift.ShiftRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]shift.ShiftRequest, len(r.s.requests))
	for i, req := range r.s.requests {
		out[i] = cloneRequest(req)
	}
	return out, nil
}

func (r shiftRequestRepository) GetByID(ctx context.Context, id string) (shift.ShiftRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := slices.IndexFunc(r.s.requests, func(req shift.ShiftRequest) bool { return req.ID == id })
	if i < 0 {
		return shift.ShiftRequest{}, shift.ErrRequestNotFound
	}
	return cloneRequest(r.s.requests[i]), nil
}

func (r shiftRequestRepository) Create(ctx context.Context, req shift.ShiftRequest) (shift.ShiftRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedAt = r.s.now()
	req.UpdatedAt = req.CreatedAt
	req = cloneRequest(req)
	r.s.requests = append(r.s.requests, req)
	return cloneRequest(req), nil
}

func (r shiftRequestRepository) Update(ctx context.Context, id string, patch shift.RequestPatch) (shift.ShiftRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := slices.IndexFunc(r.s.requests, func(req shift.ShiftRequest) bool { return req.ID == id })
	if i < 0 {
		return shift.ShiftRequest{}, shift.ErrRequestNotFound
	}
	req := &r.s.requests[i]
	assign(&req.UserName, patch.UserName)
	assign(&req.Date, patch.Date)
	assign(&req.Notes, patch.Notes)
	if patch.TimeSlots != nil {
		req.TimeSlots = slices.Clone(patch.TimeSlots)
	}
	if patch.Status != nil {
		req.Status = *patch.Status
	}
	req.UpdatedAt = r.s.now()
	return cloneRequest(*req), nil
}

func (r shiftRequestRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.requests)
	r.s.requests = slices.DeleteFunc(r.s.requests, func(req shift.ShiftRequest) bool { return req.ID == id })
	if len(r.s.requests) == n {
		return shift.ErrRequestNotFound
	}
	return nil
}

func (r shiftRequestRepository) RenameUser(ctx context.Context, userID, name string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.requests {
		if r.s.requests[i].UserID == userID {
			r.s.requests[i].UserName = name
		}
	}
	return nil
}

func (r shiftRequestRepository) DeleteByUserID(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.requests = slices.DeleteFunc(r.s.requests, func(req shift.ShiftRequest) bool { return req.UserID == userID })
	return nil
}

func assign(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
