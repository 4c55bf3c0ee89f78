package domain

import (
	"time"
)

type AvailabilitySchedule struct {
	ID                  int64     `json:"id"`
	UserID              string    `json:"user_id"`
	DayOfWeek           int       `json:"day_of_week"`
	StartTime           string    `json:"start_time"`
	EndTime             string    `json:"end_time"`
	BufferBeforeMinutes int       `json:"buffer_before_minutes"`
	BufferAfterMinutes  int       `json:"buffer_after_minutes"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type CreateScheduleDTO struct {
	DayOfWeek           *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime           string `json:"start_time" binding:"required"`
	EndTime             string `json:"end_time" binding:"required"`
	BufferBeforeMinutes *int   `json:"buffer_before_minutes,omitempty"`
	BufferAfterMinutes  *int   `json:"buffer_after_minutes,omitempty"`
	IsActive            *bool  `json:"is_active,omitempty"`
}

type UpdateScheduleDTO struct {
	DayOfWeek           *int    `json:"day_of_week,omitempty" binding:"omitempty,min=0,max=6"`
	StartTime           *string `json:"start_time,omitempty"`
	EndTime             *string `json:"end_time,omitempty"`
	BufferBeforeMinutes *int    `json:"buffer_before_minutes,omitempty"`
	BufferAfterMinutes  *int    `json:"buffer_after_minutes,omitempty"`
	IsActive            *bool   `json:"is_active,omitempty"`
}

const (
	DefaultScheduleStart  = "09:00"
	DefaultScheduleEnd    = "17:45"
	DefaultScheduleBuffer = 15
	MaxBufferMinutes      = 240
)

// DefaultSchedules is the Monday to Friday week handed to a user on first access.
func DefaultSchedules(userID string) []AvailabilitySchedule {
	schedules := make([]AvailabilitySchedule, 0, 5)
	for day := time.Monday; day <= time.Friday; day++ {
		schedules = append(schedules, AvailabilitySchedule{
			UserID:              userID,
			DayOfWeek:           int(day),
			StartTime:           DefaultScheduleStart,
			EndTime:             DefaultScheduleEnd,
			BufferBeforeMinutes: DefaultScheduleBuffer,
			BufferAfterMinutes:  DefaultScheduleBuffer,
			IsActive:            true,
		})
	}
	return schedules
}
