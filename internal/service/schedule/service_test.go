package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/shift"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/domain/user"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/repository/memory"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/service/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	*cache.Cache
	invalidations atomic.Int32
}

func (c *countingCache) Invalidate() {
	c.invalidations.Add(1)
	c.Cache.Invalidate()
}

// failingRequests fails Create for the listed dates.
type failingRequests struct {
	shift.ShiftRequestRepository
	failDates map[string]bool
}

func (f failingRequests) Create(ctx context.Context, req shift.ShiftRequest) (shift.ShiftRequest, error) {
	if f.failDates[req.Date] {
		return shift.ShiftRequest{}, errors.New("table api: 500")
	}
	return f.ShiftRequestRepository.Create(ctx, req)
}

type fixture struct {
	store *memory.Store
	cache *countingCache
	svc   *scheduleServiceImpl
	staff user.User
	other user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	staff, err := store.Users().Create(ctx, user.User{Name: "Sato", Role: user.RoleStaff})
	require.NoError(t, err)
	other, err := store.Users().Create(ctx, user.User{Name: "Ito", Role: user.RoleStaff})
	require.NoError(t, err)

	c := &countingCache{Cache: cache.New(store.Users(), store.Shifts(), store.ShiftRequests(), cache.WithTTL(time.Hour))}
	svc := NewScheduleService(store.ShiftRequests(), store.Shifts(), store.Users(), c).(*scheduleServiceImpl)

	return &fixture{store: store, cache: c, svc: svc, staff: staff, other: other}
}

func (f *fixture) submit(t *testing.T, userID string, dates ...string) []shift.ShiftRequestResponse {
	t.Helper()
	resp, err := f.svc.SubmitRequests(context.Background(), shift.SubmitRequestsRequest{
		UserID:    userID,
		Dates:     dates,
		StartTime: "09:00",
		EndTime:   "17:00",
		Notes:     "any",
	})
	require.NoError(t, err)
	return resp.Requests
}

func TestSubmitRequests(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.SubmitRequests(context.Background(), shift.SubmitRequestsRequest{
		UserID:    f.staff.ID,
		Dates:     []string{"2025-03-03", "2025-03-04", "2025-03-05"},
		StartTime: "09:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Created)
	assert.Equal(t, 0, resp.Failed)
	assert.Nil(t, resp.Errors)
	require.Len(t, resp.Requests, 3)
	assert.Equal(t, "2025-03-03", resp.Requests[0].Date, "results follow the submitted order")
	for _, r := range resp.Requests {
		assert.Equal(t, "pending", r.Status)
		assert.Equal(t, "Sato", r.UserName)
		assert.Equal(t, []string{"09:00-17:00"}, r.TimeSlots)
	}
}

func TestSubmitRequests_HourMinuteSelectors(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.SubmitRequests(context.Background(), shift.SubmitRequestsRequest{
		UserID: f.staff.ID,
		Dates:  []string{"2025-03-10"},
		ClockParts: shift.ClockParts{
			StartHour: "13", StartMinute: "30",
			EndHour: "18", EndMinute: "00",
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, []string{"13:30-18:00"}, resp.Requests[0].TimeSlots)
}

func TestSubmitRequests_PartialFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.requestRepo = failingRequests{
		ShiftRequestRepository: f.store.ShiftRequests(),
		failDates:              map[string]bool{"2025-03-04": true},
	}

	resp, err := f.svc.SubmitRequests(context.Background(), shift.SubmitRequestsRequest{
		UserID:    f.staff.ID,
		Dates:     []string{"2025-03-03", "2025-03-04"},
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Created)
	assert.Equal(t, 1, resp.Failed)
	assert.Contains(t, resp.Errors, "2025-03-04")
	assert.Equal(t, int32(1), f.cache.invalidations.Load())
}

func TestSubmitRequests_AllFail(t *testing.T) {
	f := newFixture(t)
	f.svc.requestRepo = failingRequests{
		ShiftRequestRepository: f.store.ShiftRequests(),
		failDates:              map[string]bool{"2025-03-03": true},
	}

	resp, err := f.svc.SubmitRequests(context.Background(), shift.SubmitRequestsRequest{
		UserID:    f.staff.ID,
		Dates:     []string{"2025-03-03"},
		StartTime: "09:00",
		EndTime:   "12:00",
	})
	assert.ErrorIs(t, err, shift.ErrNoRequestsCreated)
	assert.Equal(t, 1, resp.Failed)
}

func TestSubmitRequests_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitRequests(context.Background(), shift.SubmitRequestsRequest{
		UserID:    f.staff.ID,
		Dates:     []string{"2025-03-03"},
		StartTime: "17:00",
		EndTime:   "09:00",
	})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "end_time", verrs[0].Field)
	assert.Zero(t, f.cache.invalidations.Load())
}

func TestApproveUnapprove_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, f.staff.ID, "2025-03-03")[0]

	approved, err := f.svc.ApproveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)

	again, err := f.svc.ApproveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", again.Status)

	pending, err := f.svc.UnapproveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", pending.Status)

	list, err := f.svc.ListRequests(ctx, shift.RequestFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, req.ID, list[0].ID)
}

func TestApproveRequest_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ApproveRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, shift.ErrRequestNotFound)
}

func TestListRequests_SeesMutationsInsideTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, f.staff.ID, "2025-03-03")[0]

	before, err := f.svc.ListRequests(ctx, shift.RequestFilter{Status: "approved"})
	require.NoError(t, err)
	assert.Empty(t, before)

	_, err = f.svc.ApproveRequest(ctx, req.ID)
	require.NoError(t, err)

	after, err := f.svc.ListRequests(ctx, shift.RequestFilter{Status: "approved"})
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestListRequests_FilterAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.submit(t, f.staff.ID, "2025-03-03", "2025-03-10")
	f.submit(t, f.other.ID, "2025-03-05", "2025-04-01")

	list, err := f.svc.ListRequests(ctx, shift.RequestFilter{Month: "2025-03", Status: "all"})
	require.NoError(t, err)
	dates := make([]string, 0, len(list))
	for _, r := range list {
		dates = append(dates, r.Date)
	}
	assert.Equal(t, []string{"2025-03-10", "2025-03-05", "2025-03-03"}, dates)

	list, err = f.svc.ListRequests(ctx, shift.RequestFilter{Date: "2025-03-05"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ito", list[0].UserName)

	_, err = f.svc.ListRequests(ctx, shift.RequestFilter{Status: "rejected"})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestUpdateMyRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, f.staff.ID, "2025-03-03")[0]
	notes := "after class"

	t.Run("owner edits pending", func(t *testing.T) {
		updated, err := f.svc.UpdateMyRequest(ctx, shift.UpdateRequestRequest{
			ID: req.ID, UserID: f.staff.ID, StartTime: "13:00", EndTime: "18:00", Notes: &notes,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"13:00-18:00"}, updated.TimeSlots)
		assert.Equal(t, "after class", updated.Notes)
	})

	t.Run("someone else", func(t *testing.T) {
		_, err := f.svc.UpdateMyRequest(ctx, shift.UpdateRequestRequest{
			ID: req.ID, UserID: f.other.ID, StartTime: "13:00", EndTime: "18:00",
		})
		assert.ErrorIs(t, err, shift.ErrNotRequestOwner)
	})

	t.Run("approved is locked for staff", func(t *testing.T) {
		_, err := f.svc.ApproveRequest(ctx, req.ID)
		require.NoError(t, err)

		_, err = f.svc.UpdateMyRequest(ctx, shift.UpdateRequestRequest{
			ID: req.ID, UserID: f.staff.ID, StartTime: "10:00", EndTime: "11:00",
		})
		assert.ErrorIs(t, err, shift.ErrRequestNotEditable)
		assert.ErrorIs(t, f.svc.DeleteMyRequest(ctx, f.staff.ID, req.ID), shift.ErrRequestNotEditable)
	})

	t.Run("admin can still edit approved", func(t *testing.T) {
		updated, err := f.svc.UpdateRequest(ctx, shift.UpdateRequestRequest{
			ID: req.ID, StartTime: "10:00", EndTime: "11:00",
		})
		require.NoError(t, err)
		assert.Equal(t, "approved", updated.Status)
		assert.Equal(t, []string{"10:00-11:00"}, updated.TimeSlots)
	})
}

func TestDeleteMyRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, f.staff.ID, "2025-03-03")[0]

	assert.ErrorIs(t, f.svc.DeleteMyRequest(ctx, f.other.ID, req.ID), shift.ErrNotRequestOwner)
	require.NoError(t, f.svc.DeleteMyRequest(ctx, f.staff.ID, req.ID))

	_, err := f.svc.GetRequest(ctx, req.ID)
	assert.ErrorIs(t, err, shift.ErrRequestNotFound)
}

func TestAdjustRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.submit(t, f.staff.ID, "2025-03-03")[0]

	created, err := f.svc.AdjustRequest(ctx, shift.AdjustRequestRequest{
		ID: req.ID, StartTime: "10:00", EndTime: "15:00", Notes: "shortened",
	})
	require.NoError(t, err)
	assert.True(t, created.IsConfirmed)
	assert.Equal(t, "2025-03-03", created.Date)
	assert.Equal(t, "Sato", created.UserName)
	assert.Equal(t, "10:00", created.StartTime)
	assert.Equal(t, "15:00", created.EndTime)

	got, err := f.svc.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)

	shifts, err := f.svc.ListShifts(ctx, shift.ShiftFilter{Month: "2025-03"})
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
}

func TestCreateRequestFor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateRequestFor(ctx, shift.CreateRequestRequest{
		UserID: f.other.ID, Date: "2025-03-12", StartTime: "09:00", EndTime: "13:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "approved", created.Status)
	assert.Equal(t, "Ito", created.UserName)
	assert.Equal(t, "3月12日（水）", created.DisplayDate)

	pending, err := f.svc.CreateRequestFor(ctx, shift.CreateRequestRequest{
		UserID: f.other.ID, Date: "2025-03-13", StartTime: "09:00", EndTime: "13:00", Status: "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", pending.Status)

	_, err = f.svc.CreateRequestFor(ctx, shift.CreateRequestRequest{
		UserID: "nobody", Date: "2025-03-13", StartTime: "09:00", EndTime: "13:00",
	})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestShiftCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreateShift(ctx, shift.CreateShiftRequest{
		UserID: f.staff.ID, Date: "2025-03-20", StartTime: "12:00", EndTime: "18:00",
	})
	require.NoError(t, err)
	assert.True(t, created.IsConfirmed)

	updated, err := f.svc.UpdateShift(ctx, shift.UpdateShiftRequest{
		ID: created.ID, UserID: f.other.ID, Date: "2025-03-21", StartTime: "12:00", EndTime: "16:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ito", updated.UserName)
	assert.Equal(t, "2025-03-21", updated.Date)

	mine, err := f.svc.ListShifts(ctx, shift.ShiftFilter{Month: "2025-03", UserID: f.other.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, f.svc.DeleteShift(ctx, created.ID))
	_, err = f.svc.GetShift(ctx, created.ID)
	assert.ErrorIs(t, err, shift.ErrShiftNotFound)

	_, err = f.svc.ListShifts(ctx, shift.ShiftFilter{})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestListShifts_OnlyConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.store.Shifts().Create(ctx, shift.Shift{UserID: f.staff.ID, Date: "2025-03-03", StartTime: "09:00", EndTime: "10:00", IsConfirmed: false})
	require.NoError(t, err)
	_, err = f.store.Shifts().Create(ctx, shift.Shift{UserID: f.staff.ID, Date: "2025-03-02", StartTime: "09:00", EndTime: "10:00", IsConfirmed: true})
	require.NoError(t, err)

	shifts, err := f.svc.ListShifts(ctx, shift.ShiftFilter{Month: "2025-03"})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "2025-03-02", shifts[0].Date)
}

func TestListMyConfirmed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reqs := f.submit(t, f.staff.ID, "2025-03-03", "2025-03-04")
	f.submit(t, f.other.ID, "2025-03-03")

	_, err := f.svc.ApproveRequest(ctx, reqs[1].ID)
	require.NoError(t, err)

	confirmed, err := f.svc.ListMyConfirmed(ctx, f.staff.ID, "2025-03")
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, reqs[1].ID, confirmed[0].ID)
	assert.True(t, confirmed[0].IsConfirmed)
	assert.Equal(t, "09:00", confirmed[0].StartTime)
	assert.Equal(t, "17:00", confirmed[0].EndTime)

	all, err := f.svc.ListMyRequests(ctx, f.staff.ID, "2025-03")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.ListMyRequests(ctx, f.staff.ID, "March")
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}
