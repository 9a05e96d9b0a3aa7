package contracts

import (
	"time"

	"zinbook/pkg/model"
)

// BookingEvent is the payload published on the booking events topic.
// It carries a denormalized volunteer snapshot so consumers can act
// without a directory lookup.
type BookingEvent struct {
	EventType        string                 `json:"event_type"`
	BookingID        string                 `json:"booking_id"`
	BookingReference string                 `json:"booking_reference"`
	VolunteerID      string                 `json:"volunteer_id"`
	VolunteerName    string                 `json:"volunteer_name"`
	VolunteerEmail   string                 `json:"volunteer_email"`
	ClientName       string                 `json:"client_name"`
	ClientEmail      string                 `json:"client_email"`
	ClientPhone      string                 `json:"client_phone"`
	SupportCategory  model.SupportCategory  `json:"support_category"`
	ConsultationType model.ConsultationType `json:"consultation_type"`
	StartTime        time.Time              `json:"start_time"`
	EndTime          time.Time              `json:"end_time"`
	Status           model.BookingStatus    `json:"status"`
	OccurredAt       time.Time              `json:"occurred_at"`
}
