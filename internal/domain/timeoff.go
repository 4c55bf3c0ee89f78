package domain

import "time"

// TimeOffRequest excludes a date range from availability. StartTime and EndTime
// are recorded for partial days but slot generation blocks the whole date.
type TimeOffRequest struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	StartTime  *string   `json:"start_time"`
	EndTime    *string   `json:"end_time"`
	IsFullDay  bool      `json:"is_full_day"`
	IsApproved bool      `json:"is_approved"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}

type CreateTimeOffDTO struct {
	StartDate  string  `json:"start_date" binding:"required"`
	EndDate    string  `json:"end_date" binding:"required"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	IsFullDay  *bool   `json:"is_full_day,omitempty"`
	IsApproved *bool   `json:"is_approved,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

type UpdateTimeOffDTO struct {
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	StartTime  *string `json:"start_time,omitempty"`
	EndTime    *string `json:"end_time,omitempty"`
	IsFullDay  *bool   `json:"is_full_day,omitempty"`
	IsApproved *bool   `json:"is_approved,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}
