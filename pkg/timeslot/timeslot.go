// Package timeslot expands recurring weekly availability windows into
// discrete bookable sub-windows on a concrete calendar date.
package timeslot

import (
	"fmt"
	"regexp"
	"time"
)

// DefaultSlotDuration is the appointment length offered to clients.
const DefaultSlotDuration = 30 * time.Minute

var hhmmRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Window is a half-open [Start, End) interval on a concrete date.
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the window shares any instant with [start, end).
func (w Window) Overlaps(start, end time.Time) bool {
	return w.Start.Before(end) && w.End.After(start)
}

// ParseHHMM parses a wall-clock time in HH:MM form into minutes after
// midnight.
func ParseHHMM(s string) (int, error) {
	if !hhmmRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid HH:MM time: %q", s)
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	minutes := int(s[3]-'0')*10 + int(s[4]-'0')
	return hours*60 + minutes, nil
}

// ParseDate parses a civil date in YYYY-MM-DD form as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Today returns midnight of the current civil date in loc.
func Today(loc *time.Location) time.Time {
	return StartOfDay(time.Now().In(loc))
}

// StartOfDay returns midnight of t's civil date, in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Expand slices the wall-clock range [startHHMM, endHHMM) on the given date
// into consecutive sub-windows of the given duration. Sub-window boundaries
// are aligned to multiples of the duration from midnight: a range starting
// off-boundary is advanced to the next boundary, and a range whose span is
// not an exact multiple truncates the final partial window.
func Expand(date time.Time, startHHMM, endHHMM string, slot time.Duration) ([]Window, error) {
	startMin, err := ParseHHMM(startHHMM)
	if err != nil {
		return nil, err
	}
	endMin, err := ParseHHMM(endHHMM)
	if err != nil {
		return nil, err
	}
	if startMin >= endMin {
		return nil, fmt.Errorf("start time %s must be before end time %s", startHHMM, endHHMM)
	}

	slotMin := int(slot.Minutes())
	if slotMin <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %s", slot)
	}

	// Align the first boundary to the slot grid.
	if rem := startMin % slotMin; rem != 0 {
		startMin += slotMin - rem
	}

	var windows []Window
	for cur := startMin; cur+slotMin <= endMin; cur += slotMin {
		windows = append(windows, Window{
			Start: atMinute(date, cur),
			End:   atMinute(date, cur+slotMin),
		})
	}
	return windows, nil
}

// atMinute returns the wall-clock instant min minutes after midnight on
// date's civil day. Built from calendar fields, not duration arithmetic,
// so HH:MM boundaries hold across DST transitions.
func atMinute(date time.Time, min int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), min/60, min%60, 0, 0, date.Location())
}
