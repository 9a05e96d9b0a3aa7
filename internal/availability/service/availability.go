package service

import (
	"context"
	"errors"
	"sort"
	"time"

	availabilityerrors "zinbook/internal/availability/errors"
	"zinbook/internal/availability/repository"
	"zinbook/internal/availability/validator"
	"zinbook/pkg/config"
	apperrors "zinbook/pkg/errors"
	"zinbook/pkg/model"
	"zinbook/pkg/timeslot"
)

type AvailabilityService interface {
	CreateRule(ctx context.Context, rule *model.AvailabilityRule) error
	GetRule(ctx context.Context, id string) (*model.AvailabilityRule, error)
	GetRulesForVolunteer(ctx context.Context, volunteerID string) ([]*model.AvailabilityRule, error)
	SetAvailable(ctx context.Context, id string, available bool) error
	DeleteRule(ctx context.Context, id string) error
	WindowsForDate(ctx context.Context, volunteerID string, date time.Time) ([]timeslot.Window, error)
}

type availabilityService struct {
	repo      repository.RuleRepository
	validator *validator.RuleValidator
	cfg       *config.Config
}

func NewAvailabilityService(
	repo repository.RuleRepository,
	validator *validator.RuleValidator,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// CreateRule stores a recurring weekly window. Only recurring rules are
// supported; the flag is forced on so one-off windows cannot sneak in
// through the API. New rules start available.
func (s *availabilityService) CreateRule(ctx context.Context, rule *model.AvailabilityRule) error {
	rule.IsRecurring = true
	rule.IsAvailable = true

	if err := s.validator.Validate(rule); err != nil {
		s.cfg.Log.Warn("Availability rule validation failed", "error", err)
		return apperrors.Validation("Availability rule validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.verifyNoOverlap(ctx, rule); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		s.cfg.Log.Error("Failed to create availability rule", "error", err)
		return apperrors.Internal("Failed to create availability rule", err)
	}

	s.cfg.Log.Info("Availability rule created",
		"id", rule.ID,
		"volunteer_id", rule.VolunteerID,
		"day_of_week", rule.DayOfWeek,
		"start_time", rule.StartTime,
		"end_time", rule.EndTime,
	)
	return nil
}

func (s *availabilityService) GetRule(ctx context.Context, id string) (*model.AvailabilityRule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Availability rule ID cannot be empty")
	}

	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Availability rule", id)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid availability rule ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve availability rule", err)
	}

	return rule, nil
}

func (s *availabilityService) GetRulesForVolunteer(ctx context.Context, volunteerID string) ([]*model.AvailabilityRule, error) {
	if volunteerID == "" {
		return nil, apperrors.InvalidInput("Volunteer ID cannot be empty")
	}

	rules, err := s.repo.FindByVolunteer(ctx, volunteerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability rules", "volunteer_id", volunteerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability rules", err)
	}

	return rules, nil
}

func (s *availabilityService) SetAvailable(ctx context.Context, id string, available bool) error {
	if id == "" {
		return apperrors.InvalidInput("Availability rule ID cannot be empty")
	}

	if err := s.repo.SetAvailable(ctx, id, available); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability rule", id)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid availability rule ID format")
		}
		s.cfg.Log.Error("Failed to toggle availability rule", "id", id, "error", err)
		return apperrors.Internal("Failed to update availability rule", err)
	}

	s.cfg.Log.Info("Availability rule toggled", "id", id, "is_available", available)
	return nil
}

func (s *availabilityService) DeleteRule(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Availability rule ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, availabilityerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Availability rule", id)
		}
		if errors.Is(err, availabilityerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid availability rule ID format")
		}
		s.cfg.Log.Error("Failed to delete availability rule", "id", id, "error", err)
		return apperrors.Internal("Failed to delete availability rule", err)
	}

	s.cfg.Log.Info("Availability rule deleted", "id", id)
	return nil
}

// WindowsForDate expands every active recurring rule matching the date's
// weekday into slot-sized windows, sorted by start time. The date carries
// the service timezone so windows land on the right civil day.
func (s *availabilityService) WindowsForDate(ctx context.Context, volunteerID string, date time.Time) ([]timeslot.Window, error) {
	rules, err := s.repo.FindByVolunteerAndDay(ctx, volunteerID, int(date.Weekday()), true)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability rules",
			"volunteer_id", volunteerID,
			"day_of_week", int(date.Weekday()),
			"error", err)
		return nil, apperrors.Internal("Failed to retrieve availability rules", err)
	}

	slotDuration := time.Duration(s.cfg.SlotDurationMin) * time.Minute

	var windows []timeslot.Window
	for _, rule := range rules {
		expanded, err := timeslot.Expand(date, rule.StartTime, rule.EndTime, slotDuration)
		if err != nil {
			// A stored rule that no longer expands is a data defect,
			// not a client error. Skip it rather than failing the
			// whole day.
			s.cfg.Log.Warn("Skipping malformed availability rule",
				"rule_id", rule.ID,
				"start_time", rule.StartTime,
				"end_time", rule.EndTime,
				"error", err)
			continue
		}
		windows = append(windows, expanded...)
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows, nil
}

// verifyNoOverlap rejects a rule whose window intersects an existing rule
// for the same volunteer and weekday, available or not.
func (s *availabilityService) verifyNoOverlap(ctx context.Context, rule *model.AvailabilityRule) error {
	existing, err := s.repo.FindByVolunteerAndDay(ctx, rule.VolunteerID, rule.DayOfWeek, false)
	if err != nil {
		return apperrors.Internal("Failed to check existing availability rules", err)
	}

	newStart, _ := timeslot.ParseHHMM(rule.StartTime)
	newEnd, _ := timeslot.ParseHHMM(rule.EndTime)

	for _, r := range existing {
		start, _ := timeslot.ParseHHMM(r.StartTime)
		end, _ := timeslot.ParseHHMM(r.EndTime)
		if newStart < end && newEnd > start {
			return apperrors.Conflict("Availability rule overlaps an existing rule for this day")
		}
	}

	return nil
}
