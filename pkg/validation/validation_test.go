package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type phoneFixture struct {
	Phone string `validate:"uk_phone"`
}

type timeFixture struct {
	Start string `validate:"hhmm"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterCustom(v); err != nil {
		t.Fatalf("RegisterCustom() error = %v", err)
	}
	return v
}

func TestUKPhone(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		phone string
		valid bool
	}{
		{"+447700900123", true},
		{"07700900123", true},
		{"0116254516", false},  // nine digits after prefix
		{"+17700900123", false},
		{"7700900123", false}, // missing prefix
		{"+44770090012345", false},
		{"", false},
	}

	for _, tt := range tests {
		err := v.Struct(phoneFixture{Phone: tt.phone})
		if (err == nil) != tt.valid {
			t.Errorf("uk_phone(%q): got err=%v, want valid=%v", tt.phone, err, tt.valid)
		}
	}
}

func TestHHMM(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		value string
		valid bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:00", false},
		{"09:60", false},
		{"0900", false},
		{"", false},
	}

	for _, tt := range tests {
		err := v.Struct(timeFixture{Start: tt.value})
		if (err == nil) != tt.valid {
			t.Errorf("hhmm(%q): got err=%v, want valid=%v", tt.value, err, tt.valid)
		}
	}
}
