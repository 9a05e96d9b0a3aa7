package bookingref

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var refPattern = regexp.MustCompile(`^ZT-\d{4}-\d{6}$`)

func TestGenerate_Format(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		ref := Generate(now)
		if !refPattern.MatchString(ref) {
			t.Fatalf("reference %q does not match ZT-<year>-<6 digits>", ref)
		}
	}
}

func TestGenerate_UsesGivenYear(t *testing.T) {
	now := time.Date(2031, time.January, 1, 0, 0, 0, 0, time.UTC)
	ref := Generate(now)
	if !strings.HasPrefix(ref, "ZT-2031-") {
		t.Errorf("expected prefix ZT-2031-, got %q", ref)
	}
}

func TestGenerate_NumberRange(t *testing.T) {
	now := time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		ref := Generate(now)
		parts := strings.Split(ref, "-")
		if len(parts) != 3 {
			t.Fatalf("unexpected reference shape: %q", ref)
		}
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			t.Fatalf("non-numeric suffix in %q: %v", ref, err)
		}
		if n < 100000 || n > 999999 {
			t.Fatalf("suffix %d out of range [100000, 999999]", n)
		}
	}
}
