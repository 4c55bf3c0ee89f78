package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devtracker/internal/domain"
)

func newTestScheduleService() (*ScheduleServiceImpl, *mockScheduleRepo, *mockSlotCache) {
	repo := &mockScheduleRepo{}
	cache := &mockSlotCache{}
	logger := zap.NewNop()
	return NewScheduleService(repo, newSlotInvalidator(cache, logger), logger), repo, cache
}

func TestScheduleService_ListBootstrapsDefaults(t *testing.T) {
	svc, repo, cache := newTestScheduleService()
	ctx := context.Background()

	stored := domain.DefaultSchedules("u1")
	repo.On("EnsureDefaults", mock.Anything, "u1", domain.DefaultSchedules("u1")).Return(true, nil)
	repo.On("ListByOwner", mock.Anything, "u1").Return(stored, nil)
	cache.On("Invalidate", mock.Anything, "u1").Return(nil)

	schedules, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, schedules, 5)
	assert.Equal(t, 1, schedules[0].DayOfWeek)
	assert.Equal(t, 5, schedules[4].DayOfWeek)
	for _, s := range schedules {
		assert.Equal(t, "09:00", s.StartTime)
		assert.Equal(t, "17:45", s.EndTime)
		assert.Equal(t, 15, s.BufferBeforeMinutes)
		assert.Equal(t, 15, s.BufferAfterMinutes)
		assert.True(t, s.IsActive)
	}

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestScheduleService_ListExisting(t *testing.T) {
	svc, repo, cache := newTestScheduleService()

	existing := []domain.AvailabilitySchedule{{ID: 3, UserID: "u1", DayOfWeek: 2, StartTime: "08:00", EndTime: "12:00"}}
	repo.On("EnsureDefaults", mock.Anything, "u1", mock.Anything).Return(false, nil)
	repo.On("ListByOwner", mock.Anything, "u1").Return(existing, nil)

	schedules, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, existing, schedules)

	repo.AssertExpectations(t)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestScheduleService_ListStoreError(t *testing.T) {
	svc, repo, _ := newTestScheduleService()

	repo.On("EnsureDefaults", mock.Anything, "u1", mock.Anything).Return(false, errors.New("connection reset"))

	_, err := svc.List(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestScheduleService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		dto  domain.CreateScheduleDTO
	}{
		{name: "missing day", dto: domain.CreateScheduleDTO{StartTime: "09:00", EndTime: "17:00"}},
		{name: "day out of range", dto: domain.CreateScheduleDTO{DayOfWeek: PointerTo(7), StartTime: "09:00", EndTime: "17:00"}},
		{name: "unpadded clock", dto: domain.CreateScheduleDTO{DayOfWeek: PointerTo(1), StartTime: "9:00", EndTime: "17:00"}},
		{name: "start equals end", dto: domain.CreateScheduleDTO{DayOfWeek: PointerTo(1), StartTime: "09:00", EndTime: "09:00"}},
		{name: "start after end", dto: domain.CreateScheduleDTO{DayOfWeek: PointerTo(1), StartTime: "18:00", EndTime: "09:00"}},
		{name: "negative buffer", dto: domain.CreateScheduleDTO{DayOfWeek: PointerTo(1), StartTime: "09:00", EndTime: "17:00", BufferBeforeMinutes: PointerTo(-1)}},
		{name: "buffer too large", dto: domain.CreateScheduleDTO{DayOfWeek: PointerTo(1), StartTime: "09:00", EndTime: "17:00", BufferAfterMinutes: PointerTo(241)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestScheduleService()

			_, err := svc.Create(context.Background(), "u1", tt.dto)
			assert.ErrorIs(t, err, domain.ErrValidation)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestScheduleService_Create(t *testing.T) {
	svc, repo, cache := newTestScheduleService()

	want := domain.AvailabilitySchedule{
		UserID:             "u1",
		DayOfWeek:          0,
		StartTime:          "10:00",
		EndTime:            "14:00",
		BufferAfterMinutes: 10,
		IsActive:           true,
	}
	repo.On("Create", mock.Anything, want).Return(int64(7), nil)
	cache.On("Invalidate", mock.Anything, "u1").Return(nil)

	id, err := svc.Create(context.Background(), "u1", domain.CreateScheduleDTO{
		DayOfWeek:          PointerTo(0),
		StartTime:          "10:00",
		EndTime:            "14:00",
		BufferAfterMinutes: PointerTo(10),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestScheduleService_UpdateInvalidatesRowOwner(t *testing.T) {
	svc, repo, cache := newTestScheduleService()

	existing := &domain.AvailabilitySchedule{
		ID:        4,
		UserID:    domain.AnonymousPrefix + "demo",
		DayOfWeek: 1,
		StartTime: "09:00",
		EndTime:   "17:45",
		IsActive:  true,
	}
	repo.On("GetByID", mock.Anything, int64(4), "u1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(s domain.AvailabilitySchedule) bool {
		return s.ID == 4 && !s.IsActive && s.EndTime == "12:00"
	}), "u1").Return(nil)
	cache.On("Invalidate", mock.Anything, "u1").Return(nil)
	cache.On("Invalidate", mock.Anything, domain.AnonymousPrefix+"demo").Return(nil)

	err := svc.Update(context.Background(), "u1", 4, domain.UpdateScheduleDTO{
		EndTime:  PointerTo("12:00"),
		IsActive: PointerTo(false),
	})
	require.NoError(t, err)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestScheduleService_UpdateRejectsInvertedWindow(t *testing.T) {
	svc, repo, _ := newTestScheduleService()

	repo.On("GetByID", mock.Anything, int64(4), "u1").Return(&domain.AvailabilitySchedule{
		ID: 4, UserID: "u1", DayOfWeek: 1, StartTime: "09:00", EndTime: "17:45",
	}, nil)

	err := svc.Update(context.Background(), "u1", 4, domain.UpdateScheduleDTO{StartTime: PointerTo("18:00")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestScheduleService_NotFound(t *testing.T) {
	svc, repo, _ := newTestScheduleService()

	repo.On("GetByID", mock.Anything, int64(99), "u1").Return(nil, domain.ErrNotFound)

	err := svc.Update(context.Background(), "u1", 99, domain.UpdateScheduleDTO{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(context.Background(), "u1", 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleService_Delete(t *testing.T) {
	svc, repo, cache := newTestScheduleService()

	repo.On("GetByID", mock.Anything, int64(4), "u1").Return(&domain.AvailabilitySchedule{ID: 4, UserID: "u1"}, nil)
	repo.On("Delete", mock.Anything, int64(4), "u1").Return(nil)
	cache.On("Invalidate", mock.Anything, "u1").Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), "u1", 4))

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestScheduleService_NilCache(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, newSlotInvalidator(nil, zap.NewNop()), zap.NewNop())

	repo.On("Create", mock.Anything, mock.Anything).Return(int64(1), nil)

	_, err := svc.Create(context.Background(), "u1", domain.CreateScheduleDTO{
		DayOfWeek: PointerTo(3), StartTime: "09:00", EndTime: "10:00",
	})
	assert.NoError(t, err)
}
