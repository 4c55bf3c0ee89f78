package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"devtracker/internal/domain"
	"devtracker/internal/repository"
	"devtracker/internal/slots"
)

const (
	defaultAppointmentLimit = 50
	maxAppointmentLimit     = 500
	// maxAppointmentDuration bounds how far back an overlapping appointment can start.
	maxAppointmentDuration = domain.MaxDurationMinutes * time.Minute
)

type AppointmentServiceImpl struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	invalidator *slotInvalidator
	logger      *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	invalidator *slotInvalidator,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:        repo,
		patientRepo: patientRepo,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultAppointmentLimit
	}
	if filter.Limit > maxAppointmentLimit {
		filter.Limit = maxAppointmentLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, domain.NewValidationError("unknown appointment status")
	}

	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list appointments", zap.String("user_id", filter.UserID), zap.Error(err))
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	return appointments, total, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, userID string, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return appointment, nil
}

func (s *AppointmentServiceImpl) Create(ctx context.Context, userID string, dto domain.CreateAppointmentDTO) (int64, error) {
	appointment := domain.Appointment{
		UserID:          userID,
		PatientID:       dto.PatientID,
		AppointmentDate: dto.AppointmentDate,
		DurationMinutes: dto.DurationMinutes,
		Status:          dto.Status,
		Notes:           dto.Notes,
	}
	if appointment.Status == "" {
		appointment.Status = domain.AppointmentStatusScheduled
	}

	if err := validateAppointment(appointment); err != nil {
		return 0, err
	}
	if err := s.checkPatient(ctx, userID, appointment.PatientID); err != nil {
		return 0, err
	}
	if err := s.checkConflict(ctx, userID, appointment); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, appointment)
	if err != nil {
		s.logger.Error("failed to create appointment", zap.String("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("appointment created",
		zap.Int64("id", id),
		zap.String("user_id", userID),
		zap.Time("appointment_date", appointment.AppointmentDate),
	)
	s.invalidator.invalidate(ctx, userID)
	return id, nil
}

func (s *AppointmentServiceImpl) Update(ctx context.Context, userID string, id int64, dto domain.UpdateAppointmentDTO) error {
	appointment, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}
	owner := appointment.UserID

	rescheduled := false
	if dto.PatientID != nil {
		if err := s.checkPatient(ctx, userID, dto.PatientID); err != nil {
			return err
		}
		appointment.PatientID = dto.PatientID
	}
	if dto.AppointmentDate != nil && !dto.AppointmentDate.Equal(appointment.AppointmentDate) {
		appointment.AppointmentDate = *dto.AppointmentDate
		// A new start time needs a new reminder.
		appointment.ReminderSent = false
		rescheduled = true
	}
	if dto.DurationMinutes != nil && *dto.DurationMinutes != appointment.DurationMinutes {
		appointment.DurationMinutes = *dto.DurationMinutes
		rescheduled = true
	}
	if dto.Status != nil {
		if appointment.Status == domain.AppointmentStatusCancelled && *dto.Status != domain.AppointmentStatusCancelled {
			rescheduled = true
		}
		appointment.Status = *dto.Status
	}
	if dto.Notes != nil {
		appointment.Notes = *dto.Notes
	}

	if err := validateAppointment(*appointment); err != nil {
		return err
	}
	if rescheduled {
		if err := s.checkConflict(ctx, userID, *appointment); err != nil {
			return err
		}
	}

	if err := s.repo.Update(ctx, *appointment, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to update appointment", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update appointment: %w", err)
	}

	s.invalidator.invalidate(ctx, userID, owner)
	return nil
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, userID string, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}
	if appointment.Status == domain.AppointmentStatusCancelled {
		return nil
	}

	appointment.Status = domain.AppointmentStatusCancelled
	if err := s.repo.Update(ctx, *appointment, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to cancel appointment", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("cancel appointment: %w", err)
	}

	s.logger.Info("appointment cancelled", zap.Int64("id", id), zap.String("user_id", userID))
	s.invalidator.invalidate(ctx, userID, appointment.UserID)
	return nil
}

func (s *AppointmentServiceImpl) Delete(ctx context.Context, userID string, id int64) error {
	appointment, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete appointment", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete appointment: %w", err)
	}

	s.invalidator.invalidate(ctx, userID, appointment.UserID)
	return nil
}

func (s *AppointmentServiceImpl) checkPatient(ctx context.Context, userID string, patientID *int64) error {
	if patientID == nil {
		return nil
	}

	if _, err := s.patientRepo.GetByID(ctx, *patientID, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("patient not found")
		}
		s.logger.Error("failed to get patient", zap.Int64("patient_id", *patientID), zap.Error(err))
		return fmt.Errorf("get patient: %w", err)
	}

	return nil
}

// checkConflict rejects an active appointment whose interval overlaps another
// active appointment visible to the caller.
func (s *AppointmentServiceImpl) checkConflict(ctx context.Context, userID string, appointment domain.Appointment) error {
	if appointment.Status == domain.AppointmentStatusCancelled {
		return nil
	}

	start, end := appointment.AppointmentDate, appointment.End()
	existing, err := s.repo.ListActiveBetween(ctx, userID, start.Add(-maxAppointmentDuration), end)
	if err != nil {
		s.logger.Error("failed to load appointments for conflict check", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("check conflicts: %w", err)
	}

	for _, other := range existing {
		if other.ID == appointment.ID {
			continue
		}
		if slots.Overlaps(start, end, other.AppointmentDate, other.End()) {
			return domain.ErrSlotConflict
		}
	}

	return nil
}

func (s *AppointmentServiceImpl) lookupError(id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.logger.Error("failed to get appointment", zap.Int64("id", id), zap.Error(err))
	return fmt.Errorf("get appointment: %w", err)
}

func validateAppointment(a domain.Appointment) error {
	if a.AppointmentDate.IsZero() {
		return domain.NewValidationError("appointment_date is required")
	}
	if a.DurationMinutes <= 0 || a.DurationMinutes > domain.MaxDurationMinutes {
		return domain.NewValidationError("duration_minutes must be between 1 and 1440")
	}
	if !a.Status.Valid() {
		return domain.NewValidationError("unknown appointment status")
	}
	return nil
}
