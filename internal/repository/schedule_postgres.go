package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devtracker/internal/domain"
)

const scheduleColumns = `id, user_id, day_of_week, start_time, end_time,
	buffer_before_minutes, buffer_after_minutes, is_active, created_at, updated_at`

type ScheduleRepo struct {
	db *pgxpool.Pool
}

func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) Create(ctx context.Context, schedule domain.AvailabilitySchedule) (int64, error) {
	var id int64

	query := `
		INSERT INTO availability_schedules (
			user_id, day_of_week, start_time, end_time,
			buffer_before_minutes, buffer_after_minutes, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		schedule.UserID,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.BufferBeforeMinutes,
		schedule.BufferAfterMinutes,
		schedule.IsActive,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert schedule: %w", err)
	}

	return id, nil
}

func (r *ScheduleRepo) ListByOwner(ctx context.Context, userID string) ([]domain.AvailabilitySchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM availability_schedules
		WHERE ` + ownedBy(1) + `
		ORDER BY day_of_week, start_time, id`

	return r.query(ctx, query, userID)
}

func (r *ScheduleRepo) ListActiveByDay(ctx context.Context, userID string, dayOfWeek int) ([]domain.AvailabilitySchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM availability_schedules
		WHERE ` + ownedBy(1) + ` AND day_of_week = $2 AND is_active
		ORDER BY start_time, id`

	return r.query(ctx, query, userID, dayOfWeek)
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.AvailabilitySchedule, error) {
	query := `SELECT ` + scheduleColumns + `
		FROM availability_schedules
		WHERE id = $1 AND ` + ownedBy(2)

	schedule, err := scanSchedule(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get schedule %d: %w", id, err)
	}

	return schedule, nil
}

func (r *ScheduleRepo) Update(ctx context.Context, schedule domain.AvailabilitySchedule, userID string) error {
	query := `
		UPDATE availability_schedules
		SET day_of_week = $1, start_time = $2, end_time = $3,
			buffer_before_minutes = $4, buffer_after_minutes = $5, is_active = $6, updated_at = $7
		WHERE id = $8 AND ` + ownedBy(9)

	tag, err := r.db.Exec(ctx, query,
		schedule.DayOfWeek,
		schedule.StartTime,
		schedule.EndTime,
		schedule.BufferBeforeMinutes,
		schedule.BufferAfterMinutes,
		schedule.IsActive,
		time.Now(),
		schedule.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update schedule %d: %w", schedule.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *ScheduleRepo) Delete(ctx context.Context, id int64, userID string) error {
	query := `DELETE FROM availability_schedules WHERE id = $1 AND ` + ownedBy(2)

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete schedule %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// EnsureDefaults counts only rows owned by userID itself, so shared anonymous
// rows do not stop a user from getting their own week.
func (r *ScheduleRepo) EnsureDefaults(ctx context.Context, userID string, defaults []domain.AvailabilitySchedule) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "availability_schedules:"+userID); err != nil {
		return false, fmt.Errorf("lock defaults for %s: %w", userID, err)
	}

	var count int
	err = tx.QueryRow(ctx, `SELECT COUNT(*) FROM availability_schedules WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count schedules: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	now := time.Now()
	batch := &pgx.Batch{}
	for _, s := range defaults {
		batch.Queue(`
			INSERT INTO availability_schedules (
				user_id, day_of_week, start_time, end_time,
				buffer_before_minutes, buffer_after_minutes, is_active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			userID, s.DayOfWeek, s.StartTime, s.EndTime,
			s.BufferBeforeMinutes, s.BufferAfterMinutes, s.IsActive, now,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return false, fmt.Errorf("insert default schedules: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit defaults: %w", err)
	}

	return true, nil
}

func (r *ScheduleRepo) query(ctx context.Context, query string, args ...interface{}) ([]domain.AvailabilitySchedule, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	schedules := make([]domain.AvailabilitySchedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate schedules: %w", err)
	}

	return schedules, nil
}

func scanSchedule(row pgx.Row) (*domain.AvailabilitySchedule, error) {
	var s domain.AvailabilitySchedule
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.DayOfWeek,
		&s.StartTime,
		&s.EndTime,
		&s.BufferBeforeMinutes,
		&s.BufferAfterMinutes,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
