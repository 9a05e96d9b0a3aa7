package service

import (
	"context"
	"io"
	"testing"

	volunteerserrors "zinbook/internal/volunteers/errors"
	"zinbook/internal/volunteers/validator"
	"zinbook/pkg/config"
	apperrors "zinbook/pkg/errors"
	"zinbook/pkg/logger"
	"zinbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

const testVolunteerID = "507f1f77bcf86cd799439011"

const testBio = "Experienced debt adviser supporting families across Leicester with budgeting, arrears and benefit applications."

type mockVolunteerRepo struct {
	createFn   func(ctx context.Context, volunteer *model.Volunteer) error
	findByIDFn func(ctx context.Context, id string) (*model.Volunteer, error)
	updateFn   func(ctx context.Context, id string, volunteer *model.Volunteer) (*mongo.UpdateResult, error)
	setFlagFn  func(ctx context.Context, id string, field string, value bool) error

	selectable []*model.Volunteer
}

func (m *mockVolunteerRepo) Create(ctx context.Context, volunteer *model.Volunteer) error {
	if m.createFn != nil {
		return m.createFn(ctx, volunteer)
	}
	volunteer.ID = testVolunteerID
	return nil
}

func (m *mockVolunteerRepo) FindByID(ctx context.Context, id string) (*model.Volunteer, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockVolunteerRepo) FindByEmail(ctx context.Context, email string) (*model.Volunteer, error) {
	return nil, volunteerserrors.ErrNotFound
}

func (m *mockVolunteerRepo) FindSelectable(ctx context.Context, category model.SupportCategory, language model.Language, limit int, offset int64) ([]*model.Volunteer, error) {
	var out []*model.Volunteer
	for _, v := range m.selectable {
		if !v.Selectable() {
			continue
		}
		if category != "" && !v.OffersCategory(category) {
			continue
		}
		if language != "" && !v.SpeaksLanguage(language) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockVolunteerRepo) CountSelectable(ctx context.Context, category model.SupportCategory, language model.Language) (int64, error) {
	found, _ := m.FindSelectable(ctx, category, language, 0, 0)
	return int64(len(found)), nil
}

func (m *mockVolunteerRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Volunteer, error) {
	return m.selectable, nil
}

func (m *mockVolunteerRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.selectable)), nil
}

func (m *mockVolunteerRepo) Update(ctx context.Context, id string, volunteer *model.Volunteer) (*mongo.UpdateResult, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, volunteer)
	}
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockVolunteerRepo) SetFlag(ctx context.Context, id string, field string, value bool) error {
	if m.setFlagFn != nil {
		return m.setFlagFn(ctx, id, field, value)
	}
	return nil
}

func newTestService(t *testing.T, repo *mockVolunteerRepo) VolunteerService {
	t.Helper()
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
	}
	return NewVolunteerService(repo, validator.NewVolunteerValidator(cfg.Log), cfg)
}

func validVolunteer() *model.Volunteer {
	return &model.Volunteer{
		FullName:          "Asha Patel",
		Email:             "asha@example.org",
		Phone:             "+447700900123",
		Bio:               testBio,
		SupportCategories: []model.SupportCategory{model.CategoryDebtAdvice},
		Languages:         []model.Language{model.LanguageEnglish, model.LanguageGujarati},
	}
}

func TestRegister_StartsUnverifiedAndInactive(t *testing.T) {
	svc := newTestService(t, &mockVolunteerRepo{})

	v := validVolunteer()
	v.IsVerified = true
	v.IsActive = true
	if err := svc.Register(context.Background(), v); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if v.IsVerified || v.IsActive {
		t.Errorf("is_verified=%v is_active=%v, want both false after registration", v.IsVerified, v.IsActive)
	}
	if v.Selectable() {
		t.Error("freshly registered volunteer must not be selectable")
	}
}

func TestRegister_RejectsInvalidProfile(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *model.Volunteer)
	}{
		{"short bio", func(v *model.Volunteer) { v.Bio = "too short" }},
		{"bad phone", func(v *model.Volunteer) { v.Phone = "12345" }},
		{"bad email", func(v *model.Volunteer) { v.Email = "not-an-email" }},
		{"no categories", func(v *model.Volunteer) { v.SupportCategories = nil }},
		{"unknown language", func(v *model.Volunteer) { v.Languages = []model.Language{"fr"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &mockVolunteerRepo{})
			v := validVolunteer()
			tt.mutate(v)
			err := svc.Register(context.Background(), v)
			assertAppErrorCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestRegister_ConflictOnDuplicateEmail(t *testing.T) {
	repo := &mockVolunteerRepo{
		createFn: func(ctx context.Context, volunteer *model.Volunteer) error {
			return volunteerserrors.ErrDuplicateEmail
		},
	}
	svc := newTestService(t, repo)

	err := svc.Register(context.Background(), validVolunteer())
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestGetByID_MapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode string
	}{
		{"not found", volunteerserrors.ErrNotFound, apperrors.CodeNotFound},
		{"invalid id", volunteerserrors.ErrInvalidID, apperrors.CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockVolunteerRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Volunteer, error) {
					return nil, tt.repoErr
				},
			}
			svc := newTestService(t, repo)

			_, err := svc.GetByID(context.Background(), testVolunteerID)
			assertAppErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestListSelectable_FiltersByCategoryAndLanguage(t *testing.T) {
	debtAdviser := validVolunteer()
	debtAdviser.IsVerified = true
	debtAdviser.IsActive = true

	counsellor := validVolunteer()
	counsellor.Email = "sam@example.org"
	counsellor.SupportCategories = []model.SupportCategory{model.CategoryGeneralCounselling}
	counsellor.Languages = []model.Language{model.LanguagePolish}
	counsellor.IsVerified = true
	counsellor.IsActive = true

	unverified := validVolunteer()
	unverified.Email = "new@example.org"

	repo := &mockVolunteerRepo{selectable: []*model.Volunteer{debtAdviser, counsellor, unverified}}
	svc := newTestService(t, repo)

	volunteers, count, err := svc.ListSelectable(context.Background(), model.CategoryDebtAdvice, "", 20, 0)
	if err != nil {
		t.Fatalf("ListSelectable() error = %v", err)
	}
	if count != 1 || len(volunteers) != 1 {
		t.Fatalf("got %d volunteers (count %d), want 1", len(volunteers), count)
	}
	if volunteers[0].Email != debtAdviser.Email {
		t.Errorf("got %s, want the debt adviser", volunteers[0].Email)
	}

	volunteers, _, err = svc.ListSelectable(context.Background(), "", model.LanguagePolish, 20, 0)
	if err != nil {
		t.Fatalf("ListSelectable() error = %v", err)
	}
	if len(volunteers) != 1 || volunteers[0].Email != counsellor.Email {
		t.Errorf("language filter returned wrong volunteers: %v", volunteers)
	}
}

func TestUpdateProfile_MergesOnlyProvidedFields(t *testing.T) {
	existing := validVolunteer()
	existing.ID = testVolunteerID

	var updated *model.Volunteer
	repo := &mockVolunteerRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Volunteer, error) {
			copied := *existing
			return &copied, nil
		},
		updateFn: func(ctx context.Context, id string, volunteer *model.Volunteer) (*mongo.UpdateResult, error) {
			updated = volunteer
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.UpdateProfile(context.Background(), testVolunteerID, &model.VolunteerUpdate{
		Phone: "+447700900999",
	})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Phone != "+447700900999" {
		t.Errorf("phone = %s, want updated value", updated.Phone)
	}
	if updated.FullName != existing.FullName || updated.Bio != existing.Bio {
		t.Error("untouched fields must keep their existing values")
	}
}

func TestUpdateProfile_RejectsInvalidMergeResult(t *testing.T) {
	existing := validVolunteer()
	existing.ID = testVolunteerID

	repo := &mockVolunteerRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Volunteer, error) {
			copied := *existing
			return &copied, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.UpdateProfile(context.Background(), testVolunteerID, &model.VolunteerUpdate{
		Phone: "not-a-phone",
	})
	assertAppErrorCode(t, err, apperrors.CodeValidation)
}

func TestSetVerifiedAndActive_TargetTheRightField(t *testing.T) {
	var gotField string
	var gotValue bool
	repo := &mockVolunteerRepo{
		setFlagFn: func(ctx context.Context, id string, field string, value bool) error {
			gotField = field
			gotValue = value
			return nil
		},
	}
	svc := newTestService(t, repo)

	if err := svc.SetVerified(context.Background(), testVolunteerID, true); err != nil {
		t.Fatalf("SetVerified() error = %v", err)
	}
	if gotField != "is_verified" || !gotValue {
		t.Errorf("SetVerified wrote %s=%v, want is_verified=true", gotField, gotValue)
	}

	if err := svc.SetActive(context.Background(), testVolunteerID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}
	if gotField != "is_active" || gotValue {
		t.Errorf("SetActive wrote %s=%v, want is_active=false", gotField, gotValue)
	}
}

func TestSetFlag_NotFound(t *testing.T) {
	repo := &mockVolunteerRepo{
		setFlagFn: func(ctx context.Context, id string, field string, value bool) error {
			return volunteerserrors.ErrNotFound
		},
	}
	svc := newTestService(t, repo)

	err := svc.SetVerified(context.Background(), testVolunteerID, true)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("error code = %s, want %s (message: %s)", appErr.Code, code, appErr.Message)
	}
}
