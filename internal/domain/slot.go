package domain

// Slot is a bookable start time. It is never persisted; the slot cache keeps copies for a short TTL.
type Slot struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Duration int    `json:"duration"`
}
