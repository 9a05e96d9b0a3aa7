package service

import (
	"context"
	"errors"
	"sync"

	volunteerserrors "zinbook/internal/volunteers/errors"
	"zinbook/internal/volunteers/repository"
	"zinbook/internal/volunteers/validator"
	"zinbook/pkg/config"
	apperrors "zinbook/pkg/errors"
	"zinbook/pkg/model"
)

type VolunteerService interface {
	Register(ctx context.Context, volunteer *model.Volunteer) error
	GetByID(ctx context.Context, id string) (*model.Volunteer, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Volunteer, int64, error)
	ListSelectable(ctx context.Context, category model.SupportCategory, language model.Language, limit int, offset int64) ([]*model.Volunteer, int64, error)
	UpdateProfile(ctx context.Context, id string, updates *model.VolunteerUpdate) error
	SetVerified(ctx context.Context, id string, verified bool) error
	SetActive(ctx context.Context, id string, active bool) error
}

type volunteerService struct {
	repo      repository.VolunteerRepository
	validator *validator.VolunteerValidator
	cfg       *config.Config
}

func NewVolunteerService(
	repo repository.VolunteerRepository,
	validator *validator.VolunteerValidator,
	cfg *config.Config,
) VolunteerService {
	return &volunteerService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Register creates a volunteer profile. New volunteers start unverified
// and inactive so they never surface to clients until an admin approves
// them.
func (s *volunteerService) Register(ctx context.Context, volunteer *model.Volunteer) error {
	volunteer.IsVerified = false
	volunteer.IsActive = false

	if err := s.validator.Validate(volunteer); err != nil {
		s.cfg.Log.Warn("Volunteer validation failed", "error", err)
		return apperrors.Validation("Volunteer validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, volunteer); err != nil {
		if errors.Is(err, volunteerserrors.ErrDuplicateEmail) {
			return apperrors.Conflict("A volunteer with this email is already registered")
		}
		s.cfg.Log.Error("Failed to register volunteer", "error", err)
		return apperrors.Internal("Failed to register volunteer", err)
	}

	s.cfg.Log.Info("Volunteer registered", "id", volunteer.ID, "email", volunteer.Email)
	return nil
}

func (s *volunteerService) GetByID(ctx context.Context, id string) (*model.Volunteer, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Volunteer ID cannot be empty")
	}

	volunteer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, volunteerserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Volunteer", id)
		}
		if errors.Is(err, volunteerserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid volunteer ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve volunteer", err)
	}

	return volunteer, nil
}

func (s *volunteerService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Volunteer, int64, error) {
	var count int64
	var volunteers []*model.Volunteer
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count volunteers", "error", errCount)
			errCount = apperrors.Internal("Failed to count volunteers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		volunteers, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list volunteers", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve volunteers", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return volunteers, count, nil
}

// ListSelectable returns verified, active volunteers, optionally narrowed
// by support category and spoken language.
func (s *volunteerService) ListSelectable(ctx context.Context, category model.SupportCategory, language model.Language, limit int, offset int64) ([]*model.Volunteer, int64, error) {
	var count int64
	var volunteers []*model.Volunteer
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountSelectable(ctx, category, language)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count selectable volunteers", "error", errCount)
			errCount = apperrors.Internal("Failed to count volunteers", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		volunteers, errFind = s.repo.FindSelectable(ctx, category, language, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list selectable volunteers", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve volunteers", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return volunteers, count, nil
}

func (s *volunteerService) UpdateProfile(ctx context.Context, id string, updates *model.VolunteerUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Volunteer ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Volunteer update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		return apperrors.Validation("Volunteer validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, volunteerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Volunteer", id)
		}
		s.cfg.Log.Error("Failed to update volunteer", "id", id, "error", err)
		return apperrors.Internal("Failed to update volunteer", err)
	}

	s.cfg.Log.Info("Volunteer profile updated", "id", id)
	return nil
}

func (s *volunteerService) SetVerified(ctx context.Context, id string, verified bool) error {
	return s.setFlag(ctx, id, "is_verified", verified)
}

func (s *volunteerService) SetActive(ctx context.Context, id string, active bool) error {
	return s.setFlag(ctx, id, "is_active", active)
}

func (s *volunteerService) setFlag(ctx context.Context, id string, field string, value bool) error {
	if id == "" {
		return apperrors.InvalidInput("Volunteer ID cannot be empty")
	}

	if err := s.repo.SetFlag(ctx, id, field, value); err != nil {
		if errors.Is(err, volunteerserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Volunteer", id)
		}
		if errors.Is(err, volunteerserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid volunteer ID format")
		}
		s.cfg.Log.Error("Failed to update volunteer flag", "id", id, "field", field, "error", err)
		return apperrors.Internal("Failed to update volunteer", err)
	}

	s.cfg.Log.Info("Volunteer flag updated", "id", id, "field", field, "value", value)
	return nil
}

func (s *volunteerService) mergeUpdates(existing *model.Volunteer, updates *model.VolunteerUpdate) *model.Volunteer {
	merged := *existing

	if updates.FullName != "" {
		merged.FullName = updates.FullName
	}
	if updates.Phone != "" {
		merged.Phone = updates.Phone
	}
	if updates.Bio != "" {
		merged.Bio = updates.Bio
	}
	if updates.SupportCategories != nil {
		merged.SupportCategories = updates.SupportCategories
	}
	if updates.Languages != nil {
		merged.Languages = updates.Languages
	}

	return &merged
}
