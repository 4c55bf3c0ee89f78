package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"devtracker/config"
	"devtracker/internal/domain"
	"devtracker/internal/metrics"
	"devtracker/internal/repository"
)

type ReminderServiceImpl struct {
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	lead            time.Duration
	batchSize       int
	limiter         *rate.Limiter
	logger          *zap.Logger
}

func NewReminderService(
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	cfg config.ReminderConfig,
	limiter *rate.Limiter,
	logger *zap.Logger,
) *ReminderServiceImpl {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return &ReminderServiceImpl{
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		lead:            cfg.Lead,
		batchSize:       batchSize,
		limiter:         limiter,
		logger:          logger,
	}
}

func (s *ReminderServiceImpl) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.appointmentRepo.ListDueReminders(ctx, now, now.Add(s.lead), s.batchSize)
	if err != nil {
		s.logger.Error("failed to load due reminders", zap.Error(err))
		return 0, fmt.Errorf("list due reminders: %w", err)
	}

	sent := 0
	for _, appointment := range due {
		if err := s.limiter.Wait(ctx); err != nil {
			return sent, err
		}

		fields := []zap.Field{
			zap.Int64("appointment_id", appointment.ID),
			zap.String("user_id", appointment.UserID),
			zap.Time("appointment_date", appointment.AppointmentDate),
			zap.Int("duration_minutes", appointment.DurationMinutes),
		}
		if patient := s.patient(ctx, appointment); patient != nil {
			fields = append(fields,
				zap.String("patient", patient.FirstName+" "+patient.LastName),
				zap.String("phone", patient.Phone),
			)
		}

		if err := s.appointmentRepo.MarkReminderSent(ctx, appointment.ID); err != nil {
			s.logger.Error("failed to mark reminder sent", zap.Int64("appointment_id", appointment.ID), zap.Error(err))
			continue
		}

		s.logger.Info("appointment reminder", fields...)
		metrics.IncReminderSent()
		sent++
	}

	return sent, nil
}

func (s *ReminderServiceImpl) patient(ctx context.Context, appointment domain.Appointment) *domain.Patient {
	if appointment.PatientID == nil {
		return nil
	}

	patient, err := s.patientRepo.GetByID(ctx, *appointment.PatientID, appointment.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to load reminder patient", zap.Int64("patient_id", *appointment.PatientID), zap.Error(err))
		}
		return nil
	}
	return patient
}
