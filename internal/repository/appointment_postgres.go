package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"devtracker/internal/domain"
)

const appointmentColumns = `id, user_id, patient_id, appointment_date, duration_minutes, status, notes,
	reminder_sent, created_at, updated_at`

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Create(ctx context.Context, appointment domain.Appointment) (int64, error) {
	var id int64

	query := `
		INSERT INTO appointments (
			user_id, patient_id, appointment_date, duration_minutes, status, notes, reminder_sent,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		appointment.UserID,
		appointment.PatientID,
		appointment.AppointmentDate,
		appointment.DurationMinutes,
		string(appointment.Status),
		appointment.Notes,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert appointment: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND ` + ownedBy(2)

	appointment, err := scanAppointment(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}

	return appointment, nil
}

// List builds the WHERE clause from the set filter fields and returns the page
// together with the total row count.
func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	conditions := []string{ownedBy(1)}
	args := []interface{}{filter.UserID}

	add := func(cond string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.PatientID != nil {
		add("patient_id = $%d", *filter.PatientID)
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.StartDate != nil {
		add("appointment_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("appointment_date < $%d", *filter.EndDate)
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE ` + where + ` ORDER BY appointment_date, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	appointments, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

func (r *AppointmentRepo) ListActiveBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE ` + ownedBy(1) + `
			AND appointment_date >= $2
			AND appointment_date < $3
			AND status <> 'cancelled'
		ORDER BY appointment_date, id`

	return r.query(ctx, query, userID, from, to)
}

func (r *AppointmentRepo) Update(ctx context.Context, appointment domain.Appointment, userID string) error {
	query := `
		UPDATE appointments
		SET patient_id = $1, appointment_date = $2, duration_minutes = $3, status = $4, notes = $5,
			reminder_sent = $6, updated_at = $7
		WHERE id = $8 AND ` + ownedBy(9)

	tag, err := r.db.Exec(ctx, query,
		appointment.PatientID,
		appointment.AppointmentDate,
		appointment.DurationMinutes,
		string(appointment.Status),
		appointment.Notes,
		appointment.ReminderSent,
		time.Now(),
		appointment.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update appointment %d: %w", appointment.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM appointments WHERE id = $1 AND `+ownedBy(2), id, userID)
	if err != nil {
		return fmt.Errorf("delete appointment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) ListDueReminders(ctx context.Context, from, to time.Time, limit int) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE reminder_sent = FALSE
			AND status IN ('scheduled', 'confirmed')
			AND appointment_date > $1
			AND appointment_date <= $2
		ORDER BY appointment_date, id
		LIMIT $3`

	return r.query(ctx, query, from, to, limit)
}

func (r *AppointmentRepo) MarkReminderSent(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE appointments SET reminder_sent = TRUE, updated_at = $1 WHERE id = $2`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("mark reminder %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *AppointmentRepo) query(ctx context.Context, query string, args ...interface{}) ([]domain.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, *appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var (
		a      domain.Appointment
		status string
	)
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.PatientID,
		&a.AppointmentDate,
		&a.DurationMinutes,
		&status,
		&a.Notes,
		&a.ReminderSent,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.AppointmentStatus(status)
	return &a, nil
}
