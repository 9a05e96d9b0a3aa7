package model

import "time"

// Slot is a derived 30-minute candidate appointment window. Slots are
// computed fresh on every query and never persisted.
type Slot struct {
	VolunteerID string    `json:"volunteer_id"`
	Date        string    `json:"date"` // civil date, YYYY-MM-DD
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	IsFree      bool      `json:"is_free"`
}
