// Package notifications consumes booking lifecycle events and sends the
// corresponding transactional emails. Email delivery is decoupled from
// the booking write path: a reservation commits even when SMTP is down,
// and the consumer's retry/DLQ handling picks up the slack.
package notifications

import (
	"context"
	"fmt"

	"zinbook/pkg/contracts"
	"zinbook/pkg/kafka"
	"zinbook/pkg/logger"
	"zinbook/pkg/model"
)

// BookingMailer is the slice of the mailer the notifier needs.
type BookingMailer interface {
	SendBookingConfirmation(ctx context.Context, booking *model.Booking) error
	SendVolunteerNotification(ctx context.Context, volunteer *model.Volunteer, booking *model.Booking) error
}

type Notifier struct {
	mailer BookingMailer
	log    *logger.Logger
}

func NewNotifier(mailer BookingMailer, log *logger.Logger) *Notifier {
	return &Notifier{
		mailer: mailer,
		log:    log,
	}
}

// HandleMessage is the kafka.MessageHandler for the booking events topic.
// Only booking.created triggers emails; status-change events are consumed
// and acknowledged without action.
func (n *Notifier) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event contracts.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("failed to decode booking event", err)
	}

	n.log.Info("booking event received",
		"event_type", event.EventType,
		"booking_reference", event.BookingReference)

	if event.EventType != kafka.EventBookingCreated {
		return nil
	}

	booking := bookingFromEvent(&event)

	if err := n.mailer.SendBookingConfirmation(ctx, booking); err != nil {
		return kafka.NewTransientError(
			fmt.Sprintf("failed to send confirmation for %s", event.BookingReference), err)
	}

	if event.VolunteerEmail == "" {
		n.log.Warn("booking event has no volunteer email, skipping notification",
			"booking_reference", event.BookingReference)
		return nil
	}

	volunteer := &model.Volunteer{
		ID:       event.VolunteerID,
		FullName: event.VolunteerName,
		Email:    event.VolunteerEmail,
	}
	if err := n.mailer.SendVolunteerNotification(ctx, volunteer, booking); err != nil {
		// The client confirmation already went out; failing here would
		// resend it on retry. Log and move on.
		n.log.Error("failed to send volunteer notification",
			"booking_reference", event.BookingReference,
			"error", err)
	}

	return nil
}

func bookingFromEvent(event *contracts.BookingEvent) *model.Booking {
	return &model.Booking{
		ID:               event.BookingID,
		BookingReference: event.BookingReference,
		VolunteerID:      event.VolunteerID,
		ClientName:       event.ClientName,
		ClientEmail:      event.ClientEmail,
		ClientPhone:      event.ClientPhone,
		SupportCategory:  event.SupportCategory,
		ConsultationType: event.ConsultationType,
		StartTime:        event.StartTime,
		EndTime:          event.EndTime,
		Status:           event.Status,
	}
}
