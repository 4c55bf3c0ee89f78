package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"devtracker/config"
	"devtracker/internal/domain"
	"devtracker/internal/repository"
)

type Deps struct {
	Repos *repository.Repositories
	// SlotCache is optional. A nil cache disables slot caching.
	SlotCache repository.SlotCache
	Logger    *zap.Logger
	Config    *config.Config
	Now       func() time.Time
}

type Services struct {
	Schedule    ScheduleService
	TimeOff     TimeOffService
	Appointment AppointmentService
	Patient     PatientService
	Slot        SlotService
	Reminder    ReminderService
}

func NewServices(deps Deps) *Services {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	invalidator := newSlotInvalidator(deps.SlotCache, deps.Logger)

	return &Services{
		Schedule:    NewScheduleService(deps.Repos.Schedule, invalidator, deps.Logger),
		TimeOff:     NewTimeOffService(deps.Repos.TimeOff, invalidator, deps.Logger),
		Appointment: NewAppointmentService(deps.Repos.Appointment, deps.Repos.Patient, invalidator, deps.Logger),
		Patient:     NewPatientService(deps.Repos.Patient, deps.Config.Phone.DefaultRegion, deps.Logger),
		Slot: NewSlotService(
			deps.Repos.Schedule,
			deps.Repos.TimeOff,
			deps.Repos.Appointment,
			deps.SlotCache,
			deps.Config.Location,
			now,
			deps.Logger,
		),
		Reminder: NewReminderService(
			deps.Repos.Appointment,
			deps.Repos.Patient,
			deps.Config.Reminder,
			reminderLimiter(deps.Config.Reminder.PerSecond),
			deps.Logger,
		),
	}
}

type ScheduleService interface {
	// List returns the caller's schedules, inserting the default week first
	// when the caller has none.
	List(ctx context.Context, userID string) ([]domain.AvailabilitySchedule, error)
	Create(ctx context.Context, userID string, dto domain.CreateScheduleDTO) (int64, error)
	Update(ctx context.Context, userID string, id int64, dto domain.UpdateScheduleDTO) error
	Delete(ctx context.Context, userID string, id int64) error
}

type TimeOffService interface {
	List(ctx context.Context, userID string) ([]domain.TimeOffRequest, error)
	Create(ctx context.Context, userID string, dto domain.CreateTimeOffDTO) (int64, error)
	Update(ctx context.Context, userID string, id int64, dto domain.UpdateTimeOffDTO) error
	Delete(ctx context.Context, userID string, id int64) error
}

type AppointmentService interface {
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	GetByID(ctx context.Context, userID string, id int64) (*domain.Appointment, error)
	Create(ctx context.Context, userID string, dto domain.CreateAppointmentDTO) (int64, error)
	Update(ctx context.Context, userID string, id int64, dto domain.UpdateAppointmentDTO) error
	Cancel(ctx context.Context, userID string, id int64) error
	Delete(ctx context.Context, userID string, id int64) error
}

type PatientService interface {
	List(ctx context.Context, userID string) ([]domain.Patient, error)
	GetByID(ctx context.Context, userID string, id int64) (*domain.Patient, error)
	Create(ctx context.Context, userID string, dto domain.CreatePatientDTO) (int64, error)
	Update(ctx context.Context, userID string, id int64, dto domain.UpdatePatientDTO) error
	Delete(ctx context.Context, userID string, id int64) error
}

type SlotService interface {
	Available(ctx context.Context, userID, date string, duration int) ([]domain.Slot, error)
}

type ReminderService interface {
	// ProcessDue flags reminders for appointments starting within the lead
	// window after now and returns how many were flagged.
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}

// slotInvalidator drops cached slot lists after a write that can change them.
type slotInvalidator struct {
	cache  repository.SlotCache
	logger *zap.Logger
}

func newSlotInvalidator(cache repository.SlotCache, logger *zap.Logger) *slotInvalidator {
	return &slotInvalidator{cache: cache, logger: logger}
}

// invalidate never fails the write. A lost invalidation is bounded by the TTL.
func (i *slotInvalidator) invalidate(ctx context.Context, userIDs ...string) {
	if i == nil || i.cache == nil {
		return
	}

	seen := make(map[string]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		if err := i.cache.Invalidate(ctx, userID); err != nil {
			i.logger.Warn("slot cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
}

func reminderLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

func PointerTo[T any](v T) *T {
	return &v
}
