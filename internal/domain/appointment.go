package domain

import (
	"time"
)

// MaxDurationMinutes bounds appointment lengths and slot queries.
const MaxDurationMinutes = 24 * 60

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

type Appointment struct {
	ID              int64             `json:"id"`
	UserID          string            `json:"user_id"`
	PatientID       *int64            `json:"patient_id"`
	AppointmentDate time.Time         `json:"appointment_date"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          AppointmentStatus `json:"status"`
	Notes           string            `json:"notes"`
	ReminderSent    bool              `json:"reminder_sent"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (a Appointment) End() time.Time {
	return a.AppointmentDate.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

type CreateAppointmentDTO struct {
	PatientID       *int64            `json:"patient_id,omitempty"`
	AppointmentDate time.Time         `json:"appointment_date" binding:"required"`
	DurationMinutes int               `json:"duration_minutes" binding:"required,min=1,max=1440"`
	Status          AppointmentStatus `json:"status,omitempty" binding:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
	Notes           string            `json:"notes,omitempty"`
}

type UpdateAppointmentDTO struct {
	PatientID       *int64             `json:"patient_id,omitempty"`
	AppointmentDate *time.Time         `json:"appointment_date,omitempty"`
	DurationMinutes *int               `json:"duration_minutes,omitempty" binding:"omitempty,min=1,max=1440"`
	Status          *AppointmentStatus `json:"status,omitempty" binding:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
	Notes           *string            `json:"notes,omitempty"`
}

type AppointmentFilter struct {
	UserID    string
	PatientID *int64
	Status    *AppointmentStatus
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}
