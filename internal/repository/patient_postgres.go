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

const patientColumns = `id, user_id, first_name, last_name, phone, email, created_at, updated_at`

type PatientRepo struct {
	db *pgxpool.Pool
}

func NewPatientRepository(db *pgxpool.Pool) *PatientRepo {
	return &PatientRepo{db: db}
}

func (r *PatientRepo) Create(ctx context.Context, patient domain.Patient) (int64, error) {
	var id int64

	query := `
		INSERT INTO patients (user_id, first_name, last_name, phone, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		patient.UserID,
		patient.FirstName,
		patient.LastName,
		patient.Phone,
		patient.Email,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert patient: %w", err)
	}

	return id, nil
}

func (r *PatientRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Patient, error) {
	query := `SELECT ` + patientColumns + `
		FROM patients
		WHERE ` + ownedBy(1) + `
		ORDER BY last_name, first_name, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	patients := make([]domain.Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, *patient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}

	return patients, nil
}

func (r *PatientRepo) GetByID(ctx context.Context, id int64, userID string) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND ` + ownedBy(2)

	patient, err := scanPatient(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get patient %d: %w", id, err)
	}

	return patient, nil
}

func (r *PatientRepo) Update(ctx context.Context, patient domain.Patient, userID string) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, phone = $3, email = $4, updated_at = $5
		WHERE id = $6 AND ` + ownedBy(7)

	tag, err := r.db.Exec(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Phone,
		patient.Email,
		time.Now(),
		patient.ID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update patient %d: %w", patient.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func (r *PatientRepo) Delete(ctx context.Context, id int64, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patients WHERE id = $1 AND `+ownedBy(2), id, userID)
	if err != nil {
		return fmt.Errorf("delete patient %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var p domain.Patient
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.Phone,
		&p.Email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
