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

type TimeOffServiceImpl struct {
	repo        repository.TimeOffRepository
	invalidator *slotInvalidator
	logger      *zap.Logger
}

func NewTimeOffService(repo repository.TimeOffRepository, invalidator *slotInvalidator, logger *zap.Logger) *TimeOffServiceImpl {
	return &TimeOffServiceImpl{
		repo:        repo,
		invalidator: invalidator,
		logger:      logger,
	}
}

func (s *TimeOffServiceImpl) List(ctx context.Context, userID string) ([]domain.TimeOffRequest, error) {
	requests, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list time off", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("list time off: %w", err)
	}
	return requests, nil
}

func (s *TimeOffServiceImpl) Create(ctx context.Context, userID string, dto domain.CreateTimeOffDTO) (int64, error) {
	request := domain.TimeOffRequest{
		UserID:     userID,
		StartDate:  dto.StartDate,
		EndDate:    dto.EndDate,
		StartTime:  dto.StartTime,
		EndTime:    dto.EndTime,
		IsFullDay:  dto.StartTime == nil && dto.EndTime == nil,
		IsApproved: true,
		Reason:     dto.Reason,
	}
	if dto.IsFullDay != nil {
		request.IsFullDay = *dto.IsFullDay
	}
	if dto.IsApproved != nil {
		request.IsApproved = *dto.IsApproved
	}

	if err := normalizeTimeOff(&request); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, request)
	if err != nil {
		s.logger.Error("failed to create time off", zap.String("user_id", userID), zap.Error(err))
		return 0, fmt.Errorf("create time off: %w", err)
	}

	s.invalidator.invalidate(ctx, userID)
	return id, nil
}

func (s *TimeOffServiceImpl) Update(ctx context.Context, userID string, id int64, dto domain.UpdateTimeOffDTO) error {
	request, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}
	owner := request.UserID

	if dto.StartDate != nil {
		request.StartDate = *dto.StartDate
	}
	if dto.EndDate != nil {
		request.EndDate = *dto.EndDate
	}
	if dto.StartTime != nil {
		request.StartTime = dto.StartTime
	}
	if dto.EndTime != nil {
		request.EndTime = dto.EndTime
	}
	switch {
	case dto.IsFullDay != nil:
		request.IsFullDay = *dto.IsFullDay
	case dto.StartTime != nil || dto.EndTime != nil:
		// Sending clock times alone turns the request into a partial day.
		request.IsFullDay = false
	}
	if dto.IsApproved != nil {
		request.IsApproved = *dto.IsApproved
	}
	if dto.Reason != nil {
		request.Reason = *dto.Reason
	}

	if err := normalizeTimeOff(request); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, *request, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to update time off", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update time off: %w", err)
	}

	s.invalidator.invalidate(ctx, userID, owner)
	return nil
}

func (s *TimeOffServiceImpl) Delete(ctx context.Context, userID string, id int64) error {
	request, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return s.lookupError(id, err)
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete time off", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete time off: %w", err)
	}

	s.invalidator.invalidate(ctx, userID, request.UserID)
	return nil
}

func (s *TimeOffServiceImpl) lookupError(id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.logger.Error("failed to get time off", zap.Int64("id", id), zap.Error(err))
	return fmt.Errorf("get time off: %w", err)
}

// normalizeTimeOff validates the request and clears the clock fields of a
// full-day request.
func normalizeTimeOff(t *domain.TimeOffRequest) error {
	if !validator.ValidateDate(t.StartDate) || !validator.ValidateDate(t.EndDate) {
		return domain.NewValidationError("start_date and end_date must be in YYYY-MM-DD format")
	}
	if t.EndDate < t.StartDate {
		return domain.NewValidationError("start_date must not be after end_date")
	}

	if t.IsFullDay {
		t.StartTime = nil
		t.EndTime = nil
		return nil
	}

	if t.StartTime == nil || t.EndTime == nil {
		return domain.NewValidationError("start_time and end_time are required for a partial day")
	}
	if !validator.ValidateClock(*t.StartTime) || !validator.ValidateClock(*t.EndTime) {
		return domain.NewValidationError("start_time and end_time must be in HH:MM format")
	}
	if !validator.ClockBefore(*t.StartTime, *t.EndTime) {
		return domain.NewValidationError("start_time must be before end_time")
	}
	return nil
}
