package service

import (
	"context"
	"io"
	"testing"
	"time"

	"zinbook/internal/availability/validator"
	"zinbook/pkg/config"
	apperrors "zinbook/pkg/errors"
	"zinbook/pkg/logger"
	"zinbook/pkg/model"
)

const testVolunteerID = "507f1f77bcf86cd799439011"

type mockRuleRepo struct {
	rules []*model.AvailabilityRule

	createFn       func(ctx context.Context, rule *model.AvailabilityRule) error
	setAvailableFn func(ctx context.Context, id string, available bool) error
	deleteFn       func(ctx context.Context, id string) error
}

func (m *mockRuleRepo) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	if m.createFn != nil {
		return m.createFn(ctx, rule)
	}
	m.rules = append(m.rules, rule)
	return nil
}

func (m *mockRuleRepo) FindByID(ctx context.Context, id string) (*model.AvailabilityRule, error) {
	for _, r := range m.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *mockRuleRepo) FindByVolunteer(ctx context.Context, volunteerID string) ([]*model.AvailabilityRule, error) {
	var out []*model.AvailabilityRule
	for _, r := range m.rules {
		if r.VolunteerID == volunteerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRuleRepo) FindByVolunteerAndDay(ctx context.Context, volunteerID string, dayOfWeek int, onlyAvailable bool) ([]*model.AvailabilityRule, error) {
	var out []*model.AvailabilityRule
	for _, r := range m.rules {
		if r.VolunteerID != volunteerID || r.DayOfWeek != dayOfWeek {
			continue
		}
		if onlyAvailable && !r.IsAvailable {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRuleRepo) SetAvailable(ctx context.Context, id string, available bool) error {
	if m.setAvailableFn != nil {
		return m.setAvailableFn(ctx, id, available)
	}
	return nil
}

func (m *mockRuleRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func newTestService(t *testing.T, repo *mockRuleRepo) AvailabilityService {
	t.Helper()
	cfg := &config.Config{
		Log:             logger.New(logger.Config{Level: logger.ERROR, Output: io.Discard}),
		Location:        time.UTC,
		SlotDurationMin: 30,
	}
	return NewAvailabilityService(repo, validator.NewRuleValidator(cfg.Log), cfg)
}

func rule(day int, start, end string, available bool) *model.AvailabilityRule {
	return &model.AvailabilityRule{
		VolunteerID: testVolunteerID,
		DayOfWeek:   day,
		StartTime:   start,
		EndTime:     end,
		IsRecurring: true,
		IsAvailable: available,
	}
}

func TestCreateRule_ForcesRecurringAndAvailable(t *testing.T) {
	repo := &mockRuleRepo{}
	svc := newTestService(t, repo)

	r := rule(2, "13:00", "14:00", false)
	r.IsRecurring = false
	if err := svc.CreateRule(context.Background(), r); err != nil {
		t.Fatalf("CreateRule() error = %v", err)
	}
	if !r.IsRecurring || !r.IsAvailable {
		t.Errorf("is_recurring=%v is_available=%v, want both true", r.IsRecurring, r.IsAvailable)
	}
	if len(repo.rules) != 1 {
		t.Errorf("stored %d rules, want 1", len(repo.rules))
	}
}

func TestCreateRule_RejectsInvalidTimes(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
	}{
		{"end before start", "14:00", "13:00"},
		{"end equals start", "13:00", "13:00"},
		{"bad start format", "1pm", "14:00"},
		{"out of range hour", "25:00", "26:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &mockRuleRepo{})
			err := svc.CreateRule(context.Background(), rule(2, tt.start, tt.end, true))
			assertAppErrorCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestCreateRule_RejectsOverlap(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"identical window", "13:00", "14:00", true},
		{"partial overlap", "13:30", "15:00", true},
		{"contains existing", "12:00", "15:00", true},
		{"inside existing", "13:15", "13:45", true},
		{"adjacent after", "14:00", "15:00", false},
		{"adjacent before", "12:00", "13:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRuleRepo{rules: []*model.AvailabilityRule{rule(2, "13:00", "14:00", true)}}
			svc := newTestService(t, repo)

			err := svc.CreateRule(context.Background(), rule(2, tt.start, tt.end, true))
			if tt.wantErr {
				assertAppErrorCode(t, err, apperrors.CodeConflict)
				return
			}
			if err != nil {
				t.Fatalf("CreateRule() error = %v, want nil", err)
			}
		})
	}
}

func TestCreateRule_DisabledRulesStillBlockOverlap(t *testing.T) {
	repo := &mockRuleRepo{rules: []*model.AvailabilityRule{rule(2, "13:00", "14:00", false)}}
	svc := newTestService(t, repo)

	err := svc.CreateRule(context.Background(), rule(2, "13:00", "14:00", true))
	assertAppErrorCode(t, err, apperrors.CodeConflict)
}

func TestCreateRule_DifferentDayDoesNotOverlap(t *testing.T) {
	repo := &mockRuleRepo{rules: []*model.AvailabilityRule{rule(2, "13:00", "14:00", true)}}
	svc := newTestService(t, repo)

	if err := svc.CreateRule(context.Background(), rule(3, "13:00", "14:00", true)); err != nil {
		t.Fatalf("CreateRule() error = %v, want nil", err)
	}
}

func TestWindowsForDate_ExpandsMatchingDay(t *testing.T) {
	// 2025-03-11 is a Tuesday (weekday 2).
	tuesday := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	repo := &mockRuleRepo{rules: []*model.AvailabilityRule{
		rule(2, "09:00", "10:00", true),
		rule(2, "13:00", "14:00", true),
		rule(3, "09:00", "17:00", true), // Wednesday, must not appear
	}}
	svc := newTestService(t, repo)

	windows, err := svc.WindowsForDate(context.Background(), testVolunteerID, tuesday)
	if err != nil {
		t.Fatalf("WindowsForDate() error = %v", err)
	}
	if len(windows) != 4 {
		t.Fatalf("got %d windows, want 4", len(windows))
	}

	wantStarts := []string{"09:00", "09:30", "13:00", "13:30"}
	for i, w := range windows {
		if got := w.Start.Format("15:04"); got != wantStarts[i] {
			t.Errorf("window[%d] starts %s, want %s", i, got, wantStarts[i])
		}
		if w.End.Sub(w.Start) != 30*time.Minute {
			t.Errorf("window[%d] duration = %s, want 30m", i, w.End.Sub(w.Start))
		}
		if w.Start.Year() != 2025 || w.Start.Month() != 3 || w.Start.Day() != 11 {
			t.Errorf("window[%d] on wrong date: %s", i, w.Start)
		}
	}
}

func TestWindowsForDate_SkipsDisabledRules(t *testing.T) {
	tuesday := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	repo := &mockRuleRepo{rules: []*model.AvailabilityRule{
		rule(2, "09:00", "10:00", false),
	}}
	svc := newTestService(t, repo)

	windows, err := svc.WindowsForDate(context.Background(), testVolunteerID, tuesday)
	if err != nil {
		t.Fatalf("WindowsForDate() error = %v", err)
	}
	if len(windows) != 0 {
		t.Errorf("got %d windows from a disabled rule, want 0", len(windows))
	}
}

func TestWindowsForDate_SkipsMalformedRule(t *testing.T) {
	tuesday := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	repo := &mockRuleRepo{rules: []*model.AvailabilityRule{
		rule(2, "not-a-time", "14:00", true),
		rule(2, "09:00", "09:30", true),
	}}
	svc := newTestService(t, repo)

	windows, err := svc.WindowsForDate(context.Background(), testVolunteerID, tuesday)
	if err != nil {
		t.Fatalf("WindowsForDate() error = %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1 (malformed rule skipped)", len(windows))
	}
}

func TestWindowsForDate_TruncatesPartialSlot(t *testing.T) {
	tuesday := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	// 45 minutes only fits one full 30-minute slot.
	repo := &mockRuleRepo{rules: []*model.AvailabilityRule{
		rule(2, "09:00", "09:45", true),
	}}
	svc := newTestService(t, repo)

	windows, err := svc.WindowsForDate(context.Background(), testVolunteerID, tuesday)
	if err != nil {
		t.Fatalf("WindowsForDate() error = %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("got %d windows, want 1", len(windows))
	}
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
