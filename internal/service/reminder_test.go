package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devtracker/config"
	"devtracker/internal/domain"
)

func TestReminderService_ProcessDue(t *testing.T) {
	appointments := &mockAppointmentRepo{}
	patients := &mockPatientRepo{}
	svc := NewReminderService(appointments, patients, config.ReminderConfig{Lead: 24 * time.Hour, BatchSize: 10}, nil, zap.NewNop())

	now := time.Date(2030, time.January, 6, 12, 0, 0, 0, time.UTC)
	due := []domain.Appointment{
		{ID: 1, UserID: "u1", PatientID: PointerTo(int64(8)), AppointmentDate: now.Add(2 * time.Hour), DurationMinutes: 30},
		{ID: 2, UserID: "u1", AppointmentDate: now.Add(20 * time.Hour), DurationMinutes: 45},
		{ID: 3, UserID: "u2", AppointmentDate: now.Add(23 * time.Hour), DurationMinutes: 15},
	}

	appointments.On("ListDueReminders", mock.Anything, now, now.Add(24*time.Hour), 10).Return(due, nil)
	patients.On("GetByID", mock.Anything, int64(8), "u1").Return(&domain.Patient{FirstName: "Ann", LastName: "Lee", Phone: "+16502530000"}, nil)
	appointments.On("MarkReminderSent", mock.Anything, int64(1)).Return(nil)
	appointments.On("MarkReminderSent", mock.Anything, int64(2)).Return(errors.New("deadlock"))
	appointments.On("MarkReminderSent", mock.Anything, int64(3)).Return(nil)

	sent, err := svc.ProcessDue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	appointments.AssertExpectations(t)
	patients.AssertExpectations(t)
}

func TestReminderService_ListError(t *testing.T) {
	appointments := &mockAppointmentRepo{}
	svc := NewReminderService(appointments, &mockPatientRepo{}, config.ReminderConfig{Lead: time.Hour}, nil, zap.NewNop())

	appointments.On("ListDueReminders", mock.Anything, mock.Anything, mock.Anything, 100).Return(nil, errors.New("connection refused"))

	sent, err := svc.ProcessDue(context.Background(), time.Now())
	assert.Error(t, err)
	assert.Zero(t, sent)
}

func TestReminderService_StopsOnCancelledContext(t *testing.T) {
	appointments := &mockAppointmentRepo{}
	svc := NewReminderService(appointments, &mockPatientRepo{}, config.ReminderConfig{Lead: time.Hour},
		reminderLimiter(0.001), zap.NewNop())

	now := time.Now()
	appointments.On("ListDueReminders", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.Appointment{
		{ID: 1, UserID: "u1", AppointmentDate: now.Add(time.Minute), DurationMinutes: 30},
		{ID: 2, UserID: "u1", AppointmentDate: now.Add(2 * time.Minute), DurationMinutes: 30},
	}, nil)
	appointments.On("MarkReminderSent", mock.Anything, int64(1)).Return(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	sent, err := svc.ProcessDue(ctx, now)
	assert.Error(t, err)
	assert.Equal(t, 1, sent)
	appointments.AssertNotCalled(t, "MarkReminderSent", mock.Anything, int64(2))
}
