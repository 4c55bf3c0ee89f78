package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devtracker/internal/domain"
	"devtracker/internal/repository"
)

type slotFixture struct {
	svc          *SlotServiceImpl
	schedules    *mockScheduleRepo
	timeOff      *mockTimeOffRepo
	appointments *mockAppointmentRepo
	cache        *mockSlotCache
}

// 2030-01-07 is a Monday.
var slotDay = time.Date(2030, time.January, 7, 0, 0, 0, 0, time.UTC)

func newSlotFixture(now time.Time, withCache bool) slotFixture {
	f := slotFixture{
		schedules:    &mockScheduleRepo{},
		timeOff:      &mockTimeOffRepo{},
		appointments: &mockAppointmentRepo{},
	}

	var cache repository.SlotCache
	if withCache {
		f.cache = &mockSlotCache{}
		cache = f.cache
	}

	clock := func() time.Time { return now }
	f.svc = NewSlotService(f.schedules, f.timeOff, f.appointments, cache, time.UTC, clock, zap.NewNop())
	return f
}

func mondaySchedule() []domain.AvailabilitySchedule {
	return []domain.AvailabilitySchedule{{
		ID: 1, UserID: "u1", DayOfWeek: 1, StartTime: "09:00", EndTime: "17:45",
		BufferBeforeMinutes: 15, BufferAfterMinutes: 15, IsActive: true,
	}}
}

func TestSlotService_Validation(t *testing.T) {
	f := newSlotFixture(slotDay, false)

	tests := []struct {
		name     string
		date     string
		duration int
		message  string
	}{
		{name: "missing date", date: "", duration: 30, message: MsgDateRequired},
		{name: "bad date", date: "07-01-2030", duration: 30, message: MsgInvalidDate},
		{name: "zero duration", date: "2030-01-07", duration: 0, message: MsgInvalidDuration},
		{name: "negative duration", date: "2030-01-07", duration: -15, message: MsgInvalidDuration},
		{name: "duration above a day", date: "2030-01-07", duration: domain.MaxDurationMinutes + 1, message: MsgInvalidDuration},
		{name: "huge duration", date: "2030-01-07", duration: 200000000, message: MsgInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Available(context.Background(), "u1", tt.date, tt.duration)
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.EqualError(t, err, tt.message)
		})
	}
}

func TestSlotService_ComputesWithAppointment(t *testing.T) {
	f := newSlotFixture(slotDay.Add(-24*time.Hour), false)

	f.timeOff.On("ListApprovedCovering", mock.Anything, "u1", "2030-01-07").Return([]domain.TimeOffRequest{}, nil)
	f.schedules.On("ListActiveByDay", mock.Anything, "u1", 1).Return(mondaySchedule(), nil)
	f.appointments.On("ListActiveBetween", mock.Anything, "u1", slotDay, slotDay.AddDate(0, 0, 1)).
		Return([]domain.Appointment{{
			ID: 1, AppointmentDate: slotDay.Add(10 * time.Hour), DurationMinutes: 30, Status: domain.AppointmentStatusScheduled,
		}}, nil)

	result, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 60)
	require.NoError(t, err)

	times := make([]string, 0, len(result))
	for _, s := range result {
		times = append(times, s.Time)
		assert.Equal(t, 60, s.Duration)
		assert.Equal(t, "2030-01-07", s.Date)
	}
	assert.Equal(t, []string{
		"09:00", "10:30", "11:00", "11:30", "12:00", "12:30", "13:00", "13:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}, times)
}

func TestSlotService_TimeOffShortCircuits(t *testing.T) {
	f := newSlotFixture(slotDay.Add(-24*time.Hour), false)

	f.timeOff.On("ListApprovedCovering", mock.Anything, "u1", "2030-01-07").
		Return([]domain.TimeOffRequest{{ID: 1, StartDate: "2030-01-07", EndDate: "2030-01-07", IsApproved: true}}, nil)

	result, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	f.schedules.AssertNotCalled(t, "ListActiveByDay", mock.Anything, mock.Anything, mock.Anything)
}

func TestSlotService_NoSchedules(t *testing.T) {
	f := newSlotFixture(slotDay.Add(-24*time.Hour), false)

	f.timeOff.On("ListApprovedCovering", mock.Anything, "u1", "2030-01-07").Return([]domain.TimeOffRequest{}, nil)
	f.schedules.On("ListActiveByDay", mock.Anything, "u1", 1).Return([]domain.AvailabilitySchedule{}, nil)

	result, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Empty(t, result)
	f.schedules.AssertNotCalled(t, "EnsureDefaults", mock.Anything, mock.Anything, mock.Anything)
	f.appointments.AssertNotCalled(t, "ListActiveBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSlotService_StoreError(t *testing.T) {
	f := newSlotFixture(slotDay, false)

	f.timeOff.On("ListApprovedCovering", mock.Anything, "u1", "2030-01-07").Return(nil, errors.New("timeout"))

	_, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 30)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

const slotKey = "slots:u1:v0:0:2030-01-07:30"

func TestSlotService_CacheHitIsRefiltered(t *testing.T) {
	now := slotDay.Add(9*time.Hour + 10*time.Minute)
	f := newSlotFixture(now, true)

	cached := []domain.Slot{
		{Date: "2030-01-07", Time: "09:00", Duration: 30},
		{Date: "2030-01-07", Time: "09:30", Duration: 30},
	}
	f.cache.On("Key", mock.Anything, "u1", "2030-01-07", 30).Return(slotKey, nil)
	f.cache.On("Get", mock.Anything, slotKey).Return(cached, true, nil)

	result, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Equal(t, []domain.Slot{{Date: "2030-01-07", Time: "09:30", Duration: 30}}, result)
	f.timeOff.AssertNotCalled(t, "ListApprovedCovering", mock.Anything, mock.Anything, mock.Anything)
}

func (f slotFixture) expectEmptyMonday() {
	f.timeOff.On("ListApprovedCovering", mock.Anything, "u1", "2030-01-07").Return([]domain.TimeOffRequest{}, nil)
	f.schedules.On("ListActiveByDay", mock.Anything, "u1", 1).Return(mondaySchedule(), nil)
	f.appointments.On("ListActiveBetween", mock.Anything, "u1", mock.Anything, mock.Anything).Return([]domain.Appointment{}, nil)
}

func TestSlotService_CacheMissStores(t *testing.T) {
	f := newSlotFixture(slotDay.Add(-24*time.Hour), true)

	f.cache.On("Key", mock.Anything, "u1", "2030-01-07", 30).Return(slotKey, nil).Once()
	f.cache.On("Get", mock.Anything, slotKey).Return(nil, false, nil)
	f.expectEmptyMonday()
	f.cache.On("Set", mock.Anything, slotKey, mock.MatchedBy(func(s []domain.Slot) bool {
		return len(s) == 18
	})).Return(nil)

	result, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Len(t, result, 18)
	f.cache.AssertExpectations(t)
}

func TestSlotService_CacheReadErrorFallsThrough(t *testing.T) {
	f := newSlotFixture(slotDay.Add(-24*time.Hour), true)

	f.cache.On("Key", mock.Anything, "u1", "2030-01-07", 30).Return(slotKey, nil)
	f.cache.On("Get", mock.Anything, slotKey).Return(nil, false, errors.New("redis down"))
	f.expectEmptyMonday()
	f.cache.On("Set", mock.Anything, slotKey, mock.Anything).Return(errors.New("redis down"))

	result, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Len(t, result, 18)
}

func TestSlotService_CacheKeyErrorSkipsCache(t *testing.T) {
	f := newSlotFixture(slotDay.Add(-24*time.Hour), true)

	f.cache.On("Key", mock.Anything, "u1", "2030-01-07", 30).Return("", errors.New("redis down"))
	f.expectEmptyMonday()

	result, err := f.svc.Available(context.Background(), "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Len(t, result, 18)
	f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestSlotService_WriteDuringComputeIsNotCached(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := repository.NewSlotCache(client, time.Minute)

	schedules := &mockScheduleRepo{}
	timeOff := &mockTimeOffRepo{}
	appointments := &mockAppointmentRepo{}
	clock := func() time.Time { return slotDay.Add(-24 * time.Hour) }
	svc := NewSlotService(schedules, timeOff, appointments, cache, time.UTC, clock, zap.NewNop())

	booked := domain.Appointment{
		ID: 9, UserID: "u1", AppointmentDate: slotDay.Add(10 * time.Hour), DurationMinutes: 30,
		Status: domain.AppointmentStatusScheduled,
	}

	timeOff.On("ListApprovedCovering", mock.Anything, "u1", "2030-01-07").Return([]domain.TimeOffRequest{}, nil)
	schedules.On("ListActiveByDay", mock.Anything, "u1", 1).Return(mondaySchedule(), nil)
	// The booking commits and invalidates while the first request is computing.
	appointments.On("ListActiveBetween", mock.Anything, "u1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			require.NoError(t, cache.Invalidate(context.Background(), "u1"))
		}).
		Return([]domain.Appointment{}, nil).Once()
	appointments.On("ListActiveBetween", mock.Anything, "u1", mock.Anything, mock.Anything).
		Return([]domain.Appointment{booked}, nil)

	ctx := context.Background()

	first, err := svc.Available(ctx, "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Len(t, first, 18)

	second, err := svc.Available(ctx, "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Len(t, second, 17)
	for _, s := range second {
		assert.NotEqual(t, "10:00", s.Time)
	}

	third, err := svc.Available(ctx, "u1", "2030-01-07", 30)
	require.NoError(t, err)
	assert.Equal(t, second, third)
	appointments.AssertNumberOfCalls(t, "ListActiveBetween", 2)
}
