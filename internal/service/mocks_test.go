package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"devtracker/internal/domain"
)

type mockScheduleRepo struct {
	mock.Mock
}

func (m *mockScheduleRepo) Create(ctx context.Context, s domain.AvailabilitySchedule) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockScheduleRepo) ListByOwner(ctx context.Context, userID string) ([]domain.AvailabilitySchedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilitySchedule), args.Error(1)
}

func (m *mockScheduleRepo) ListActiveByDay(ctx context.Context, userID string, day int) ([]domain.AvailabilitySchedule, error) {
	args := m.Called(ctx, userID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AvailabilitySchedule), args.Error(1)
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.AvailabilitySchedule, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilitySchedule), args.Error(1)
}

func (m *mockScheduleRepo) Update(ctx context.Context, s domain.AvailabilitySchedule, userID string) error {
	return m.Called(ctx, s, userID).Error(0)
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id int64, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockScheduleRepo) EnsureDefaults(ctx context.Context, userID string, defaults []domain.AvailabilitySchedule) (bool, error) {
	args := m.Called(ctx, userID, defaults)
	return args.Bool(0), args.Error(1)
}

type mockTimeOffRepo struct {
	mock.Mock
}

func (m *mockTimeOffRepo) Create(ctx context.Context, t domain.TimeOffRequest) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTimeOffRepo) ListByOwner(ctx context.Context, userID string) ([]domain.TimeOffRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeOffRequest), args.Error(1)
}

func (m *mockTimeOffRepo) ListApprovedCovering(ctx context.Context, userID, date string) ([]domain.TimeOffRequest, error) {
	args := m.Called(ctx, userID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeOffRequest), args.Error(1)
}

func (m *mockTimeOffRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.TimeOffRequest, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeOffRequest), args.Error(1)
}

func (m *mockTimeOffRepo) Update(ctx context.Context, t domain.TimeOffRequest, userID string) error {
	return m.Called(ctx, t, userID).Error(0)
}

func (m *mockTimeOffRepo) Delete(ctx context.Context, id int64, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a domain.Appointment) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.Appointment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) List(ctx context.Context, f domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Appointment), args.Int(1), args.Error(2)
}

func (m *mockAppointmentRepo) ListActiveBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Appointment, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) Update(ctx context.Context, a domain.Appointment, userID string) error {
	return m.Called(ctx, a, userID).Error(0)
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id int64, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockAppointmentRepo) ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]domain.Appointment, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Appointment), args.Error(1)
}

func (m *mockAppointmentRepo) MarkReminderSent(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockPatientRepo struct {
	mock.Mock
}

func (m *mockPatientRepo) Create(ctx context.Context, p domain.Patient) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockPatientRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Patient, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Patient), args.Error(1)
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.Patient, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Patient), args.Error(1)
}

func (m *mockPatientRepo) Update(ctx context.Context, p domain.Patient, userID string) error {
	return m.Called(ctx, p, userID).Error(0)
}

func (m *mockPatientRepo) Delete(ctx context.Context, id int64, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

type mockSlotCache struct {
	mock.Mock
}

func (m *mockSlotCache) Key(ctx context.Context, userID, date string, duration int) (string, error) {
	args := m.Called(ctx, userID, date, duration)
	return args.String(0), args.Error(1)
}

func (m *mockSlotCache) Get(ctx context.Context, key string) ([]domain.Slot, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.Slot), args.Bool(1), args.Error(2)
}

func (m *mockSlotCache) Set(ctx context.Context, key string, slots []domain.Slot) error {
	return m.Called(ctx, key, slots).Error(0)
}

func (m *mockSlotCache) Invalidate(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
