package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeUsers struct {
	calls atomic.Int32
	gate  chan struct{} // when set, List blocks until closed
	start chan struct{}
	users []user.User
}

func (f *fakeUsers) List(ctx context.Context) ([]user.User, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case f.start <- struct{}{}:
		default:
		}
		<-f.gate
	}
	return f.users, nil
}

type fakeShifts struct {
	calls  atomic.Int32
	err    error
	shifts []shift.Shift
}

func (f *fakeShifts) List(ctx context.Context) ([]shift.Shift, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.shifts, nil
}

type fakeRequests struct {
	calls    atomic.Int32
	requests []shift.ShiftRequest
}

func (f *fakeRequests) List(ctx context.Context) ([]shift.ShiftRequest, error) {
	f.calls.Add(1)
	return f.requests, nil
}

func newFixture() (*fakeUsers, *fakeShifts, *fakeRequests) {
	return &fakeUsers{users: []user.User{{ID: "u1", Name: "Sato", Role: user.RoleStaff}}},
		&fakeShifts{shifts: []shift.Shift{{ID: "s1", UserID: "u1", Date: "2025-03-03", StartTime: "09:00", EndTime: "17:00", IsConfirmed: true}}},
		&fakeRequests{requests: []shift.ShiftRequest{{ID: "r1", UserID: "u1", Date: "2025-03-04", TimeSlots: []string{"09:00-12:00"}, Status: shift.RequestStatusPending}}}
}

func TestCache_ServesWithinTTL(t *testing.T) {
	users, shifts, requests := newFixture()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := New(users, shifts, requests, WithTTL(time.Minute), WithClock(clock))

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	snap, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Users, 1)
	assert.Len(t, snap.Shifts, 1)
	assert.Len(t, snap.Requests, 1)
	assert.Equal(t, int32(1), users.calls.Load())
	assert.Equal(t, int32(1), shifts.calls.Load())
	assert.Equal(t, int32(1), requests.calls.Load())

	clock.Advance(time.Minute)
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), users.calls.Load())
}

func TestCache_ZeroTTLAlwaysRefetches(t *testing.T) {
	users, shifts, requests := newFixture()
	c := New(users, shifts, requests)

	for i := 0; i < 3; i++ {
		_, err := c.Get(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), shifts.calls.Load())
}

func TestCache_InvalidateForcesRefetch(t *testing.T) {
	users, shifts, requests := newFixture()
	c := New(users, shifts, requests, WithTTL(time.Hour))

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	c.Invalidate()
	_, err = c.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), users.calls.Load())
	assert.Equal(t, int32(2), shifts.calls.Load())
	assert.Equal(t, int32(2), requests.calls.Load())
}

func TestCache_FailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	users, shifts, requests := newFixture()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	c := New(users, shifts, requests, WithTTL(time.Minute), WithClock(clock))

	first, err := c.Get(context.Background())
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	shifts.err = errors.New("table api unavailable")
	requests.requests = nil

	snap, err := c.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, first.Shifts, snap.Shifts)
	assert.Equal(t, first.Requests, snap.Requests, "a partial refresh must not replace any table")

	shifts.err = nil
	snap, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Requests)
}

func TestCache_FailedFirstLoadIsEmpty(t *testing.T) {
	users, shifts, requests := newFixture()
	shifts.err = errors.New("boom")
	c := New(users, shifts, requests, WithTTL(time.Minute))

	snap, err := c.Get(context.Background())
	require.Error(t, err)
	assert.Empty(t, snap.Users)
	assert.Empty(t, snap.Shifts)
	assert.Empty(t, snap.Requests)
}

func TestCache_ReturnsCopies(t *testing.T) {
	users, shifts, requests := newFixture()
	c := New(users, shifts, requests, WithTTL(time.Hour))

	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	snap.Users[0].Name = "changed"
	snap.Requests[0].TimeSlots[0] = "00:00-01:00"

	again, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Sato", again.Users[0].Name)
	assert.Equal(t, "09:00-12:00", again.Requests[0].TimeSlots[0])
}

func TestCache_ConcurrentGetsShareOneFetch(t *testing.T) {
	users, shifts, requests := newFixture()
	users.gate = make(chan struct{})
	users.start = make(chan struct{}, 1)
	c := New(users, shifts, requests, WithTTL(time.Hour))

	var wg sync.WaitGroup
	get := func() {
		defer wg.Done()
		_, err := c.Get(context.Background())
		assert.NoError(t, err)
	}

	wg.Add(1)
	go get()
	<-users.start
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go get()
	}
	time.Sleep(50 * time.Millisecond)
	close(users.gate)
	wg.Wait()

	assert.Equal(t, int32(1), users.calls.Load())
}

func TestCache_InFlightFetchIsDiscardedAfterInvalidate(t *testing.T) {
	users, shifts, requests := newFixture()
	users.gate = make(chan struct{})
	users.start = make(chan struct{}, 1)
	c := New(users, shifts, requests, WithTTL(time.Hour))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Get(context.Background())
		assert.NoError(t, err)
	}()
	<-users.start
	c.Invalidate()
	close(users.gate)
	<-done

	_, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), users.calls.Load())
}
