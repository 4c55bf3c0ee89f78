package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"devtracker/internal/domain"
	"devtracker/internal/repository"
	"devtracker/pkg/validator"
)

type ScheduleServiceImpl struct {
	repo        repository.ScheduleRepository
	invalidator *slotInvalidator
	logger      *zap.Logger
}

func NewScheduleService(
	repo repository.ScheduleRepository,
	invalidator *slotInvalidator,
	logger *zap.Logger,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *ScheduleServiceImpl) List(ctx context.Context, userID string) ([]domain.AvailabilitySchedule, error) {
	inserted, err := s.repo.EnsureDefaults(ctx, userID, domain.DefaultSchedules(userID))
	if err != nil {
		s.logger.Error("failed to bootstrap default schedules", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("bootstrap schedules: %w", err)
	}
	if inserted {
		s.logger.Info("default schedules created", zap.String("user_id", userID))
		s.invalidator.invalidate(ctx, userID)
	}

	schedules, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list schedules", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("list schedules: %w", err)
	}

	return schedules, nil
}

func (s *ScheduleServiceImpl) Create(ctx context.Context, userID string, dto domain.CreateScheduleDTO) (int64, error) {
	if dto.DayOfWeek == nil {
		return 0, domain.NewValidationError("day_of_week is required")
	}

	schedule := domain.AvailabilitySchedule{
		UserID:    userID,
		DayOfWeek: *dto.DayOfWeek,
		StartTime: dto.StartTime,
		EndTime:   dto.EndTime,
		IsActive:  true,
	}
	if dto.BufferBeforeMinutes != nil {
		schedule.BufferBeforeMinutes = *dto.BufferBeforeMinutes
	}
	if dto.BufferAfterMinutes != nil {
		schedule.BufferAfterMinutes = *dto.BufferAfterMinutes
	}
	if dto.IsActive != nil {
		schedule.IsActive = *dto.IsActive
	}

	if err := validateSchedule(schedule); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, schedule)
	if err != nil {
		s.logger.Error("failed to create schedule", zap.String("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("create schedule: %w", err)
	}

	s.invalidator.invalidate(ctx, userID)
	return id, nil
}

func (s *ScheduleServiceImpl) Update(ctx context.Context, userID string, id int64, dto domain.UpdateScheduleDTO) error {
	schedule, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}
	owner := schedule.UserID

	if dto.DayOfWeek != nil {
		schedule.DayOfWeek = *dto.DayOfWeek
	}
	if dto.StartTime != nil {
		schedule.StartTime = *dto.StartTime
	}
	if dto.EndTime != nil {
		schedule.EndTime = *dto.EndTime
	}
	if dto.BufferBeforeMinutes != nil {
		schedule.BufferBeforeMinutes = *dto.BufferBeforeMinutes
	}
	if dto.BufferAfterMinutes != nil {
		schedule.BufferAfterMinutes = *dto.BufferAfterMinutes
	}
	if dto.IsActive != nil {
		schedule.IsActive = *dto.IsActive
	}

	if err := validateSchedule(*schedule); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, *schedule, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to update schedule", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update schedule: %w", err)
	}

	s.invalidator.invalidate(ctx, userID, owner)
	return nil
}

func (s *ScheduleServiceImpl) Delete(ctx context.Context, userID string, id int64) error {
	schedule, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete schedule", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete schedule: %w", err)
	}

	s.invalidator.invalidate(ctx, userID, schedule.UserID)
	return nil
}

func (s *ScheduleServiceImpl) lookupError(id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.logger.Error("failed to get schedule", zap.Int64("id", id), zap.Error(err))
	return fmt.Errorf("get schedule: %w", err)
}

func validateSchedule(s domain.AvailabilitySchedule) error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return domain.NewValidationError("day_of_week must be between 0 and 6")
	}
	if !validator.ValidateClock(s.StartTime) || !validator.ValidateClock(s.EndTime) {
		return domain.NewValidationError("start_time and end_time must be in HH:MM format")
	}
	if !validator.ClockBefore(s.StartTime, s.EndTime) {
		return domain.NewValidationError("start_time must be before end_time")
	}
	if s.BufferBeforeMinutes < 0 || s.BufferBeforeMinutes > domain.MaxBufferMinutes ||
		s.BufferAfterMinutes < 0 || s.BufferAfterMinutes > domain.MaxBufferMinutes {
		return domain.NewValidationError(fmt.Sprintf("buffers must be between 0 and %d minutes", domain.MaxBufferMinutes))
	}
	return nil
}
