package config

import (
	"testing"
	"time"
)

// Load validates the configuration, resolves the service timezone, and
// logs it itself; callers get a ready-to-use Config and must not repeat
// those steps.
func TestLoad_ReturnsValidatedConfig(t *testing.T) {
	cfg := Load("config-test")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Load() returned an invalid config: %v", err)
	}
	if cfg.Log == nil {
		t.Fatal("Load() must initialize the logger")
	}
	if cfg.Location == nil {
		t.Fatal("Load() must resolve the service timezone")
	}
	if cfg.Location.String() != DefaultServiceTimeZone {
		t.Errorf("timezone = %s, want %s", cfg.Location, DefaultServiceTimeZone)
	}
	if cfg.BookingHorizonDays != DefaultBookingHorizonDays {
		t.Errorf("BookingHorizonDays = %d, want %d", cfg.BookingHorizonDays, DefaultBookingHorizonDays)
	}
	if cfg.SlotDurationMin != DefaultSlotDurationMin {
		t.Errorf("SlotDurationMin = %d, want %d", cfg.SlotDurationMin, DefaultSlotDurationMin)
	}
	if cfg.SlotLockTTL != DefaultSlotLockTTL {
		t.Errorf("SlotLockTTL = %s, want %s", cfg.SlotLockTTL, DefaultSlotLockTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvBookingHorizonDays, "14")
	t.Setenv(EnvSlotLockTTL, "5s")
	t.Setenv(EnvServiceTimeZone, "UTC")

	cfg := Load("config-test")

	if cfg.BookingHorizonDays != 14 {
		t.Errorf("BookingHorizonDays = %d, want 14", cfg.BookingHorizonDays)
	}
	if cfg.SlotLockTTL != 5*time.Second {
		t.Errorf("SlotLockTTL = %s, want 5s", cfg.SlotLockTTL)
	}
	if cfg.Location != time.UTC {
		t.Errorf("timezone = %s, want UTC", cfg.Location)
	}
}
