package notifications

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"zinbook/pkg/contracts"
	"zinbook/pkg/kafka"
	"zinbook/pkg/logger"
	"zinbook/pkg/model"
)

type mockMailer struct {
	confirmationErr error
	notificationErr error

	confirmations []*model.Booking
	notifications []*model.Volunteer
}

func (m *mockMailer) SendBookingConfirmation(ctx context.Context, booking *model.Booking) error {
	if m.confirmationErr != nil {
		return m.confirmationErr
	}
	m.confirmations = append(m.confirmations, booking)
	return nil
}

func (m *mockMailer) SendVolunteerNotification(ctx context.Context, volunteer *model.Volunteer, booking *model.Booking) error {
	if m.notificationErr != nil {
		return m.notificationErr
	}
	m.notifications = append(m.notifications, volunteer)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard})
}

func createdEvent() contracts.BookingEvent {
	return contracts.BookingEvent{
		EventType:        kafka.EventBookingCreated,
		BookingID:        "64f1f77bcf86cd7994390aaa",
		BookingReference: "ZT-2025-123456",
		VolunteerID:      "507f1f77bcf86cd799439011",
		VolunteerName:    "Asha Patel",
		VolunteerEmail:   "asha@example.org",
		ClientName:       "Jo Smith",
		ClientEmail:      "jo@example.com",
		ClientPhone:      "+447700900123",
		SupportCategory:  model.CategoryDebtAdvice,
		ConsultationType: model.ConsultationPhone,
		StartTime:        time.Date(2025, 3, 11, 13, 0, 0, 0, time.UTC),
		EndTime:          time.Date(2025, 3, 11, 13, 30, 0, 0, time.UTC),
		Status:           model.StatusUpcoming,
		OccurredAt:       time.Now().UTC(),
	}
}

func eventMessage(t *testing.T, event contracts.BookingEvent) kafka.Message {
	t.Helper()
	return kafka.NewMessage().
		WithKey(event.BookingReference).
		WithEventType(event.EventType).
		WithValue(event).
		Build()
}

func TestHandleMessage_SendsBothEmails(t *testing.T) {
	mailer := &mockMailer{}
	notifier := NewNotifier(mailer, testLogger())

	err := notifier.HandleMessage(context.Background(), eventMessage(t, createdEvent()))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(mailer.confirmations) != 1 {
		t.Errorf("sent %d confirmations, want 1", len(mailer.confirmations))
	}
	if len(mailer.notifications) != 1 {
		t.Errorf("sent %d volunteer notifications, want 1", len(mailer.notifications))
	}
	if mailer.confirmations[0].BookingReference != "ZT-2025-123456" {
		t.Errorf("confirmation for %s, want ZT-2025-123456", mailer.confirmations[0].BookingReference)
	}
}

func TestHandleMessage_IgnoresStatusChangeEvents(t *testing.T) {
	mailer := &mockMailer{}
	notifier := NewNotifier(mailer, testLogger())

	event := createdEvent()
	event.EventType = kafka.EventBookingCancelled
	if err := notifier.HandleMessage(context.Background(), eventMessage(t, event)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(mailer.confirmations) != 0 || len(mailer.notifications) != 0 {
		t.Error("status-change events must not trigger emails")
	}
}

func TestHandleMessage_ConfirmationFailureIsTransient(t *testing.T) {
	mailer := &mockMailer{confirmationErr: errors.New("smtp down")}
	notifier := NewNotifier(mailer, testLogger())

	err := notifier.HandleMessage(context.Background(), eventMessage(t, createdEvent()))
	if err == nil {
		t.Fatal("expected error when confirmation fails")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypeTransient {
		t.Errorf("confirmation failure must be retryable, got %v", err)
	}
}

func TestHandleMessage_DecodeFailureIsPermanent(t *testing.T) {
	notifier := NewNotifier(&mockMailer{}, testLogger())

	msg := kafka.NewMessage().
		WithKey("ZT-2025-123456").
		WithEventType(kafka.EventBookingCreated).
		WithRawValue([]byte("{not json")).
		Build()

	err := notifier.HandleMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error on malformed payload")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("decode failure must not be retried, got %v", err)
	}
}

func TestHandleMessage_VolunteerNotificationFailureIsSwallowed(t *testing.T) {
	mailer := &mockMailer{notificationErr: errors.New("mailbox full")}
	notifier := NewNotifier(mailer, testLogger())

	// The client confirmation already went out; a retry would resend it.
	err := notifier.HandleMessage(context.Background(), eventMessage(t, createdEvent()))
	if err != nil {
		t.Fatalf("HandleMessage() error = %v, want nil", err)
	}
	if len(mailer.confirmations) != 1 {
		t.Errorf("sent %d confirmations, want 1", len(mailer.confirmations))
	}
}

func TestHandleMessage_SkipsNotificationWithoutVolunteerEmail(t *testing.T) {
	mailer := &mockMailer{}
	notifier := NewNotifier(mailer, testLogger())

	event := createdEvent()
	event.VolunteerEmail = ""
	if err := notifier.HandleMessage(context.Background(), eventMessage(t, event)); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if len(mailer.confirmations) != 1 {
		t.Errorf("sent %d confirmations, want 1", len(mailer.confirmations))
	}
	if len(mailer.notifications) != 0 {
		t.Error("no volunteer notification should go out without an email address")
	}
}
