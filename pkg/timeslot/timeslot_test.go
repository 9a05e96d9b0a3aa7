package timeslot

import (
	"testing"
	"time"
)

func mustLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	return loc
}

func TestParseHHMM(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:00", 0, true},
		{"09:60", 0, true},
		{"", 0, true},
		{"0930", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseHHMM(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseHHMM(%q): expected error, got %d", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseHHMM(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHHMM(%q): expected %d, got %d", tt.input, tt.want, got)
		}
	}
}

func TestExpand_TwoHourRange(t *testing.T) {
	loc := mustLocation(t)
	// A Monday.
	date, err := ParseDate("2025-06-02", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	windows, err := Expand(date, "09:00", "11:00", DefaultSlotDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"09:00", "09:30", "10:00", "10:30"}
	if len(windows) != len(expected) {
		t.Fatalf("expected %d windows, got %d", len(expected), len(windows))
	}
	for i, w := range windows {
		if got := w.Start.Format("15:04"); got != expected[i] {
			t.Errorf("window %d: expected start %s, got %s", i, expected[i], got)
		}
		if w.End.Sub(w.Start) != 30*time.Minute {
			t.Errorf("window %d: expected 30m duration, got %s", i, w.End.Sub(w.Start))
		}
	}
}

func TestExpand_TruncatesPartialWindow(t *testing.T) {
	loc := mustLocation(t)
	date, err := ParseDate("2025-06-03", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 13:00-13:45 holds a single full half-hour window; the trailing
	// 15 minutes are dropped.
	windows, err := Expand(date, "13:00", "13:45", DefaultSlotDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(windows) != 1 {
		t.Fatalf("expected 1 window, got %d", len(windows))
	}
	if got := windows[0].End.Format("15:04"); got != "13:30" {
		t.Errorf("expected end 13:30, got %s", got)
	}
}

func TestExpand_AlignsOffGridStart(t *testing.T) {
	loc := mustLocation(t)
	date, err := ParseDate("2025-06-03", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	windows, err := Expand(date, "09:15", "10:30", DefaultSlotDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{"09:30", "10:00"}
	if len(windows) != len(expected) {
		t.Fatalf("expected %d windows, got %d", len(expected), len(windows))
	}
	for i, w := range windows {
		if got := w.Start.Format("15:04"); got != expected[i] {
			t.Errorf("window %d: expected start %s, got %s", i, expected[i], got)
		}
	}
}

func TestExpand_HoldsWallClockAcrossDSTTransitions(t *testing.T) {
	loc := mustLocation(t)

	tests := []struct {
		name string
		date string // Sundays with a DST transition in Europe/London
	}{
		{"spring forward", "2025-03-30"},
		{"fall back", "2025-10-26"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := ParseDate(tt.date, loc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			windows, err := Expand(date, "09:00", "11:00", DefaultSlotDuration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			expectedStarts := []string{"09:00", "09:30", "10:00", "10:30"}
			expectedEnds := []string{"09:30", "10:00", "10:30", "11:00"}
			if len(windows) != len(expectedStarts) {
				t.Fatalf("expected %d windows, got %d", len(expectedStarts), len(windows))
			}
			for i, w := range windows {
				if got := w.Start.Format("15:04"); got != expectedStarts[i] {
					t.Errorf("window %d: expected wall-clock start %s, got %s (%s)", i, expectedStarts[i], got, w.Start)
				}
				if got := w.End.Format("15:04"); got != expectedEnds[i] {
					t.Errorf("window %d: expected wall-clock end %s, got %s (%s)", i, expectedEnds[i], got, w.End)
				}
			}
		})
	}
}

func TestExpand_InvalidRange(t *testing.T) {
	loc := mustLocation(t)
	date, err := ParseDate("2025-06-03", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Expand(date, "14:00", "13:00", DefaultSlotDuration); err == nil {
		t.Error("expected error for inverted range")
	}
	if _, err := Expand(date, "13:00", "13:00", DefaultSlotDuration); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestExpand_Deterministic(t *testing.T) {
	loc := mustLocation(t)
	date, err := ParseDate("2025-06-02", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := Expand(date, "09:00", "17:00", DefaultSlotDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Expand(date, "09:00", "17:00", DefaultSlotDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("expected identical output, got %d vs %d windows", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || !first[i].End.Equal(second[i].End) {
			t.Errorf("window %d differs between identical calls", i)
		}
	}
}

func TestWindow_Overlaps(t *testing.T) {
	loc := mustLocation(t)
	day, err := ParseDate("2025-06-02", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	at := func(hhmm string) time.Time {
		min, err := ParseHHMM(hhmm)
		if err != nil {
			t.Fatalf("bad time %s: %v", hhmm, err)
		}
		return day.Add(time.Duration(min) * time.Minute)
	}

	w := Window{Start: at("09:00"), End: at("09:30")}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"identical", at("09:00"), at("09:30"), true},
		{"contained", at("09:10"), at("09:20"), true},
		{"straddles start", at("08:45"), at("09:15"), true},
		{"straddles end", at("09:15"), at("09:45"), true},
		{"adjacent before", at("08:30"), at("09:00"), false},
		{"adjacent after", at("09:30"), at("10:00"), false},
		{"disjoint", at("11:00"), at("11:30"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Overlaps(tt.start, tt.end); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
