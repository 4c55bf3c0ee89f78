package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"devtracker/internal/domain"
)

type Repositories struct {
	Schedule    ScheduleRepository
	TimeOff     TimeOffRepository
	Appointment AppointmentRepository
	Patient     PatientRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Schedule:    NewScheduleRepository(db),
		TimeOff:     NewTimeOffRepository(db),
		Appointment: NewAppointmentRepository(db),
		Patient:     NewPatientRepository(db),
	}
}

// Every owner-scoped method below accepts rows whose user_id is the caller's or
// lies in the anonymous namespace. This is a convenience for demo sessions, not
// tenant isolation.

type ScheduleRepository interface {
	Create(ctx context.Context, schedule domain.AvailabilitySchedule) (int64, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.AvailabilitySchedule, error)
	ListActiveByDay(ctx context.Context, userID string, dayOfWeek int) ([]domain.AvailabilitySchedule, error)
	GetByID(ctx context.Context, id int64, userID string) (*domain.AvailabilitySchedule, error)
	Update(ctx context.Context, schedule domain.AvailabilitySchedule, userID string) error
	Delete(ctx context.Context, id int64, userID string) error
	// EnsureDefaults inserts defaults when userID owns no rows and reports
	// whether it did. Concurrent callers for the same user are serialised.
	EnsureDefaults(ctx context.Context, userID string, defaults []domain.AvailabilitySchedule) (bool, error)
}

type TimeOffRepository interface {
	Create(ctx context.Context, request domain.TimeOffRequest) (int64, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.TimeOffRequest, error)
	ListApprovedCovering(ctx context.Context, userID string, date string) ([]domain.TimeOffRequest, error)
	GetByID(ctx context.Context, id int64, userID string) (*domain.TimeOffRequest, error)
	Update(ctx context.Context, request domain.TimeOffRequest, userID string) error
	Delete(ctx context.Context, id int64, userID string) error
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment domain.Appointment) (int64, error)
	GetByID(ctx context.Context, id int64, userID string) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
	// ListActiveBetween returns non-cancelled appointments starting in [from, to).
	ListActiveBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Appointment, error)
	Update(ctx context.Context, appointment domain.Appointment, userID string) error
	Delete(ctx context.Context, id int64, userID string) error
	// ListDueReminders returns scheduled or confirmed appointments starting in
	// (from, to] whose reminder has not been sent, earliest first.
	ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]domain.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient domain.Patient) (int64, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Patient, error)
	GetByID(ctx context.Context, id int64, userID string) (*domain.Patient, error)
	Update(ctx context.Context, patient domain.Patient, userID string) error
	Delete(ctx context.Context, id int64, userID string) error
}

// SlotCache stores computed slot lists per owner, date and duration.
// Key pins the owner's current versions. Callers resolve it before reading the
// stores and pass the same key to Set, so a list computed across a concurrent
// write is stored under a version that is already dead.
type SlotCache interface {
	Key(ctx context.Context, userID, date string, duration int) (string, error)
	Get(ctx context.Context, key string) ([]domain.Slot, bool, error)
	Set(ctx context.Context, key string, slots []domain.Slot) error
	Invalidate(ctx context.Context, userID string) error
}

func ownedBy(pos int) string {
	return fmt.Sprintf("(user_id = $%d OR user_id LIKE '%s%%')", pos, domain.AnonymousPrefix)
}
