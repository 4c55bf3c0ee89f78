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

const timeOffColumns = `id, user_id, to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	start_time, end_time, is_full_day, is_approved, reason, created_at`

type TimeOffRepo struct {
	db *pgxpool.Pool
}

func NewTimeOffRepository(db *pgxpool.Pool) *TimeOffRepo {
	return &TimeOffRepo{db: db}
}

func (r *TimeOffRepo) Create(ctx context.Context, request domain.TimeOffRequest) (int64, error) {
	var id int64

	query := `
		INSERT INTO time_off_requests (
			user_id, start_date, end_date, start_time, end_time, is_full_day, is_approved, reason, created_at
		) VALUES ($1, $2::date, $3::date, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		request.UserID,
		request.StartDate,
		request.EndDate,
		request.StartTime,
		request.EndTime,
		request.IsFullDay,
		request.IsApproved,
		request.Reason,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert time off: %w", err)
	}

	return id, nil
}

func (r *TimeOffRepo) ListByOwner(ctx context.Context, userID string) ([]domain.TimeOffRequest, error) {
	query := `SELECT ` + timeOffColumns + `
		FROM time_off_requests
		WHERE ` + ownedBy(1) + `
		ORDER BY start_date, id`

	return r.query(ctx, query, userID)
}

func (r *TimeOffRepo) ListApprovedCovering(ctx context.Context, userID string, date string) ([]domain.TimeOffRequest, error) {
	query := `SELECT ` + timeOffColumns + `
		FROM time_off_requests
		WHERE ` + ownedBy(1) + `
			AND is_approved
			AND start_date <= $2::date
			AND end_date >= $2::date
		ORDER BY id`

	return r.query(ctx, query, userID, date)
}

func (r *TimeOffRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.TimeOffRequest, error) {
	query := `SELECT ` + timeOffColumns + `
		FROM time_off_requests
		WHERE id = $1 AND ` + ownedBy(2)

	request, err := scanTimeOff(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get time off %d: %w", id, err)
	}

	return request, nil
}

func (r *TimeOffRepo) Update(ctx context.Context, request domain.TimeOffRequest, userID string) error {
	query := `
		UPDATE time_off_requests
		SET start_date = $1::date, end_date = $2::date, start_time = $3, end_time = $4,
			is_full_day = $5, is_approved = $6, reason = $7
		WHERE id = $8 AND ` + ownedBy(9)

	tag, err := r.db.Exec(ctx, query,
		request.StartDate,
		request.EndDate,
		request.StartTime,
		request.EndTime,
		request.IsFullDay,
		request.IsApproved,
		request.Reason,
		request.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update time off %d: %w", request.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *TimeOffRepo) Delete(ctx context.Context, id int64, userID string) error {
	query := `DELETE FROM time_off_requests WHERE id = $1 AND ` + ownedBy(2)

	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete time off %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *TimeOffRepo) query(ctx context.Context, query string, args ...interface{}) ([]domain.TimeOffRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list time off: %w", err)
	}
	defer rows.Close()

	requests := make([]domain.TimeOffRequest, 0)
	for rows.Next() {
		request, err := scanTimeOff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time off: %w", err)
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time off: %w", err)
	}

	return requests, nil
}

func scanTimeOff(row pgx.Row) (*domain.TimeOffRequest, error) {
	var t domain.TimeOffRequest
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.StartDate,
		&t.EndDate,
		&t.StartTime,
		&t.EndTime,
		&t.IsFullDay,
		&t.IsApproved,
		&t.Reason,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
