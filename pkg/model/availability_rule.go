package model

import "time"

// AvailabilityRule is a recurring weekly window during which a volunteer
// accepts bookings. Rules are immutable once created: volunteers delete and
// re-create them instead of editing, with is_available acting as a soft
// toggle so a window can be paused without losing it.
type AvailabilityRule struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VolunteerID string    `json:"volunteer_id" bson:"volunteer_id" validate:"required,mongodb"`
	DayOfWeek   int       `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	StartTime   string    `json:"start_time" bson:"start_time" validate:"required,hhmm"`
	EndTime     string    `json:"end_time" bson:"end_time" validate:"required,hhmm"`
	IsRecurring bool      `json:"is_recurring" bson:"is_recurring"`
	IsAvailable bool      `json:"is_available" bson:"is_available"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
