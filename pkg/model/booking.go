package model

import "time"

type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "upcoming"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// IsTerminal reports whether the status permits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransitionTo reports whether a booking may move from s to next.
// The only legal moves are upcoming -> completed | cancelled | no_show.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s != StatusUpcoming {
		return false
	}
	return next == StatusCompleted || next == StatusCancelled || next == StatusNoShow
}

type ConsultationType string

const (
	ConsultationPhone    ConsultationType = "phone"
	ConsultationInPerson ConsultationType = "in_person"
)

type Booking struct {
	ID                string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingReference  string           `json:"booking_reference" bson:"booking_reference" validate:"omitempty"`
	VolunteerID       string           `json:"volunteer_id" bson:"volunteer_id" validate:"required,mongodb"`
	ClientName        string           `json:"client_name" bson:"client_name" validate:"required,min=2,max=50"`
	ClientEmail       string           `json:"client_email" bson:"client_email" validate:"required,email"`
	ClientPhone       string           `json:"client_phone" bson:"client_phone" validate:"required,uk_phone"`
	SupportCategory   SupportCategory  `json:"support_category" bson:"support_category" validate:"required,oneof=domestic_abuse debt_advice poverty_welfare general_counselling"`
	ConsultationType  ConsultationType `json:"consultation_type" bson:"consultation_type" validate:"required,oneof=phone in_person"`
	StartTime         time.Time        `json:"start_time" bson:"start_time" validate:"required"`
	EndTime           time.Time        `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status            BookingStatus    `json:"status" bson:"status" validate:"required,oneof=upcoming completed cancelled no_show"`
	PreferredLanguage Language         `json:"preferred_language" bson:"preferred_language" validate:"required,oneof=en hi gu pu pl"`
	Note              string           `json:"note,omitempty" bson:"note,omitempty" validate:"omitempty,max=500"`
	CreatedAt         time.Time        `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt         time.Time        `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Overlaps reports whether the booking's [start, end) interval shares any
// instant with [start, end).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}
