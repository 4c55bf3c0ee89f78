package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"devtracker/internal/domain"
	"devtracker/internal/metrics"
	"devtracker/internal/repository"
	"devtracker/internal/slots"
	"devtracker/pkg/validator"
)

// Messages returned to the caller for malformed slot queries.
const (
	MsgDateRequired    = "Date parameter is required"
	MsgInvalidDate     = "Invalid date format, expected YYYY-MM-DD"
	MsgInvalidDuration = "Duration must be a positive integer"
)

type SlotServiceImpl struct {
	scheduleRepo    repository.ScheduleRepository
	timeOffRepo     repository.TimeOffRepository
	appointmentRepo repository.AppointmentRepository
	cache           repository.SlotCache
	location        *time.Location
	now             func() time.Time
	logger          *zap.Logger
}

func NewSlotService(
	scheduleRepo repository.ScheduleRepository,
	timeOffRepo repository.TimeOffRepository,
	appointmentRepo repository.AppointmentRepository,
	cache repository.SlotCache,
	location *time.Location,
	now func() time.Time,
	logger *zap.Logger,
) *SlotServiceImpl {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	return &SlotServiceImpl{
		scheduleRepo:    scheduleRepo,
		timeOffRepo:     timeOffRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		location:        location,
		now:             now,
		logger:          logger,
	}
}

// Available does not bootstrap default schedules. A caller with no schedules
// gets an empty list.
func (s *SlotServiceImpl) Available(ctx context.Context, userID, date string, duration int) ([]domain.Slot, error) {
	if date == "" {
		return nil, domain.NewValidationError(MsgDateRequired)
	}
	day, err := time.ParseInLocation(validator.DateLayout, date, s.location)
	if err != nil {
		return nil, domain.NewValidationError(MsgInvalidDate)
	}
	if duration <= 0 || duration > domain.MaxDurationMinutes {
		return nil, domain.NewValidationError(MsgInvalidDuration)
	}

	now := s.now()

	// The key is resolved before the stores are read. A write that lands during
	// compute bumps the version, leaving this entry unreachable.
	var cacheKey string
	if s.cache != nil {
		key, err := s.cache.Key(ctx, userID, date, duration)
		if err != nil {
			s.logger.Warn("slot cache key failed", zap.String("user_id", userID), zap.Error(err))
		} else {
			cacheKey = key
			cached, ok, err := s.cache.Get(ctx, key)
			switch {
			case err != nil:
				s.logger.Warn("slot cache read failed", zap.String("user_id", userID), zap.Error(err))
			case ok:
				metrics.IncSlotQuery(metrics.SlotsCached)
				return slots.Upcoming(cached, s.location, now), nil
			}
		}
	}

	started := time.Now()
	result, err := s.compute(ctx, userID, day, duration, now)
	if err != nil {
		return nil, err
	}
	metrics.ObserveSlotComputation(time.Since(started))

	if len(result) == 0 {
		metrics.IncSlotQuery(metrics.SlotsEmpty)
	} else {
		metrics.IncSlotQuery(metrics.SlotsComputed)
	}

	if cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, result); err != nil {
			s.logger.Warn("slot cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	return result, nil
}

func (s *SlotServiceImpl) compute(ctx context.Context, userID string, day time.Time, duration int, now time.Time) ([]domain.Slot, error) {
	date := day.Format(validator.DateLayout)

	timeOff, err := s.timeOffRepo.ListApprovedCovering(ctx, userID, date)
	if err != nil {
		s.logger.Error("failed to load time off", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("load time off: %w", err)
	}
	if len(timeOff) > 0 {
		return []domain.Slot{}, nil
	}

	schedules, err := s.scheduleRepo.ListActiveByDay(ctx, userID, int(day.Weekday()))
	if err != nil {
		s.logger.Error("failed to load schedules", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	if len(schedules) == 0 {
		return []domain.Slot{}, nil
	}

	appointments, err := s.appointmentRepo.ListActiveBetween(ctx, userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Error("failed to load appointments", zap.String("user_id", userID), zap.String("date", date), zap.Error(err))
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	return slots.Compute(day, duration, schedules, appointments, timeOff, now), nil
}
