package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "zinbook/internal/bookings/errors"
	"zinbook/internal/bookings/repository"
	"zinbook/internal/bookings/validator"
	"zinbook/pkg/bookingref"
	"zinbook/pkg/config"
	"zinbook/pkg/contracts"
	apperrors "zinbook/pkg/errors"
	"zinbook/pkg/kafka"
	"zinbook/pkg/model"
	"zinbook/pkg/timeslot"

	"go.mongodb.org/mongo-driver/mongo"
)

// WindowProvider yields the bookable windows a volunteer's availability
// rules produce for a civil date.
type WindowProvider interface {
	WindowsForDate(ctx context.Context, volunteerID string, date time.Time) ([]timeslot.Window, error)
}

// VolunteerDirectory resolves volunteers for selectability checks and
// event snapshots.
type VolunteerDirectory interface {
	GetByID(ctx context.Context, id string) (*model.Volunteer, error)
}

// EventPublisher emits booking lifecycle events. May be nil when the
// events pipeline is disabled.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	GetBookableSlots(ctx context.Context, volunteerID string, dateStr string) ([]*model.Slot, error)
	Reserve(ctx context.Context, booking *model.Booking) error
	UpdateStatus(ctx context.Context, id string, next model.BookingStatus) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
	ListByVolunteer(ctx context.Context, volunteerID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo       repository.BookingRepository
	lockRepo   repository.BookingLockRepository
	windows    WindowProvider
	volunteers VolunteerDirectory
	publisher  EventPublisher
	validator  *validator.BookingValidator
	cfg        *config.Config
	now        func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	windows WindowProvider,
	volunteers VolunteerDirectory,
	publisher EventPublisher,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:       repo,
		lockRepo:   lockRepo,
		windows:    windows,
		volunteers: volunteers,
		publisher:  publisher,
		validator:  validator,
		cfg:        cfg,
		now:        time.Now,
	}
}

// GetBookableSlots resolves a volunteer's availability for one civil date
// into concrete slots, marking each slot free or taken against upcoming
// bookings. Past dates and dates beyond the booking horizon yield an empty
// list: they are policy boundaries, not client errors.
func (s *bookingService) GetBookableSlots(ctx context.Context, volunteerID string, dateStr string) ([]*model.Slot, error) {
	if volunteerID == "" {
		return nil, apperrors.InvalidInput("Volunteer ID cannot be empty")
	}

	date, err := timeslot.ParseDate(dateStr, s.cfg.Location)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD", dateStr))
	}

	today := timeslot.StartOfDay(s.nowIn())
	horizon := today.AddDate(0, 0, s.cfg.BookingHorizonDays)
	if date.Before(today) || date.After(horizon) {
		return []*model.Slot{}, nil
	}

	if _, err := s.volunteers.GetByID(ctx, volunteerID); err != nil {
		return nil, err
	}

	windows, err := s.windows.WindowsForDate(ctx, volunteerID, date)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return []*model.Slot{}, nil
	}

	dayStart := timeslot.StartOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)
	upcoming, err := s.repo.FindUpcomingInRange(ctx, volunteerID, dayStart, dayEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load upcoming bookings", "volunteer_id", volunteerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	slots := make([]*model.Slot, 0, len(windows))
	for _, w := range windows {
		free := true
		for _, b := range upcoming {
			if b.Overlaps(w.Start, w.End) {
				free = false
				break
			}
		}
		slots = append(slots, &model.Slot{
			VolunteerID: volunteerID,
			Date:        dateStr,
			StartTime:   w.Start,
			EndTime:     w.End,
			IsFree:      free,
		})
	}

	return slots, nil
}

// Reserve atomically books a slot. The requested interval must be one of
// the volunteer's resolved windows; an advisory lock plus an in-transaction
// overlap re-check guarantees no double booking under concurrency.
func (s *bookingService) Reserve(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)

	if err := s.validate(booking); err != nil {
		return err
	}

	volunteer, err := s.volunteers.GetByID(ctx, booking.VolunteerID)
	if err != nil {
		return err
	}
	if !volunteer.Selectable() {
		return apperrors.InvalidInput("Volunteer is not accepting bookings")
	}
	if !volunteer.OffersCategory(booking.SupportCategory) {
		return apperrors.InvalidInput(fmt.Sprintf("Volunteer does not offer %s", booking.SupportCategory))
	}

	if err := s.verifySlotOffered(ctx, booking); err != nil {
		return err
	}

	// Advisory lock on the slot coordinates keeps concurrent requests
	// for the same slot out of the transaction.
	lockID, err := s.acquireSlotLock(ctx, booking.VolunteerID, booking.StartTime)
	if err != nil {
		return err
	}
	defer func() {
		// Detached context: the client may have disconnected, and a
		// failed delete would pin the slot until the lock TTL expires.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if releaseErr := s.releaseSlotLock(releaseCtx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to reserve booking", "error", err)
		return err
	}

	s.cfg.Log.Info("Booking reserved",
		"id", booking.ID,
		"booking_reference", booking.BookingReference,
		"volunteer_id", booking.VolunteerID,
		"start_time", booking.StartTime,
	)

	s.publishEvent(kafka.EventBookingCreated, booking, volunteer)
	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, next model.BookingStatus) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	switch next {
	case model.StatusCompleted, model.StatusCancelled, model.StatusNoShow:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("Invalid target status %q", next))
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !booking.Status.CanTransitionTo(next) {
		return apperrors.Conflict(fmt.Sprintf(
			"Cannot transition booking from %s to %s", booking.Status, next,
		))
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return apperrors.Internal("Failed to update booking status", err)
	}

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"booking_reference", booking.BookingReference,
		"from", booking.Status,
		"to", next,
	)

	booking.Status = next
	s.publishEvent(statusEventType(next), booking, nil)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	if reference == "" {
		return nil, apperrors.InvalidInput("Booking reference cannot be empty")
	}

	booking, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Booking")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) ListByVolunteer(ctx context.Context, volunteerID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if volunteerID == "" {
		return nil, 0, apperrors.InvalidInput("Volunteer ID cannot be empty")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByVolunteer(ctx, volunteerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "volunteer_id", volunteerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByVolunteer(ctx, volunteerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "volunteer_id", volunteerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	b.Status = model.StatusUpcoming
	if b.BookingReference == "" {
		b.BookingReference = bookingref.Generate(s.now())
	}
	if b.EndTime.IsZero() && !b.StartTime.IsZero() {
		b.EndTime = b.StartTime.Add(time.Duration(s.cfg.SlotDurationMin) * time.Minute)
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// nowIn returns the current instant in the service timezone.
func (s *bookingService) nowIn() time.Time {
	return s.now().In(s.cfg.Location)
}

// verifySlotOffered checks the requested interval against the calendar:
// the booking must land exactly on a window the volunteer's availability
// rules produce, on a date inside [today, today+horizon].
func (s *bookingService) verifySlotOffered(ctx context.Context, booking *model.Booking) error {
	start := booking.StartTime.In(s.cfg.Location)
	date := timeslot.StartOfDay(start)

	today := timeslot.StartOfDay(s.nowIn())
	if date.Before(today) {
		return apperrors.InvalidInput("Booking date cannot be in the past")
	}
	if !booking.StartTime.After(s.now()) {
		return apperrors.InvalidInput("Booking start time must be in the future")
	}
	horizon := today.AddDate(0, 0, s.cfg.BookingHorizonDays)
	if date.After(horizon) {
		return apperrors.InvalidInput(fmt.Sprintf("Booking date is beyond the %d-day booking horizon", s.cfg.BookingHorizonDays))
	}

	windows, err := s.windows.WindowsForDate(ctx, booking.VolunteerID, date)
	if err != nil {
		return err
	}

	for _, w := range windows {
		if w.Start.Equal(booking.StartTime) && w.End.Equal(booking.EndTime) {
			return nil
		}
	}

	return apperrors.InvalidInput("Requested slot is not offered by the volunteer's availability")
}

// verifyNoOverlap re-checks inside the transaction that no upcoming
// booking intersects the requested interval. This is the authoritative
// double-booking guard; the advisory lock only narrows the race window.
func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking) error {
	existing, err := s.repo.FindUpcomingInRange(ctx, booking.VolunteerID, booking.StartTime, booking.EndTime)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		if b.Overlaps(booking.StartTime, booking.EndTime) {
			return apperrors.Conflict(fmt.Sprintf(
				"Slot is already booked (%s - %s)",
				b.StartTime.Format(time.RFC3339),
				b.EndTime.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// acquireSlotLock creates an advisory lock keyed by the slot coordinates.
func (s *bookingService) acquireSlotLock(ctx context.Context, volunteerID string, startTime time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%d", volunteerID, startTime.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// publishEvent emits a lifecycle event best-effort: delivery failures are
// logged, never surfaced to the caller.
func (s *bookingService) publishEvent(eventType string, booking *model.Booking, volunteer *model.Volunteer) {
	if s.publisher == nil {
		return
	}

	event := contracts.BookingEvent{
		EventType:        eventType,
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		VolunteerID:      booking.VolunteerID,
		ClientName:       booking.ClientName,
		ClientEmail:      booking.ClientEmail,
		ClientPhone:      booking.ClientPhone,
		SupportCategory:  booking.SupportCategory,
		ConsultationType: booking.ConsultationType,
		StartTime:        booking.StartTime,
		EndTime:          booking.EndTime,
		Status:           booking.Status,
		OccurredAt:       time.Now().UTC(),
	}
	if volunteer != nil {
		event.VolunteerName = volunteer.FullName
		event.VolunteerEmail = volunteer.Email
	}

	msg := kafka.NewMessage().
		WithKey(booking.BookingReference).
		WithEventType(eventType).
		WithSource("zinbook").
		WithValue(event).
		Build()

	// Detached context: the HTTP request may complete before delivery.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_reference", booking.BookingReference,
			"error", err)
	}
}

func statusEventType(status model.BookingStatus) string {
	switch status {
	case model.StatusCancelled:
		return kafka.EventBookingCancelled
	case model.StatusCompleted:
		return kafka.EventBookingCompleted
	case model.StatusNoShow:
		return kafka.EventBookingNoShow
	default:
		return kafka.EventBookingCreated
	}
}
