// Package validation registers the custom struct-tag validators shared by
// the domain validators: uk_phone for UK phone numbers and hhmm for
// 24-hour wall-clock strings.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// Accepts +44 or 0 prefixed numbers with exactly ten digits after
	// the prefix, e.g. +447700900123 or 07700900123.
	UKPhoneRegex = regexp.MustCompile(`^(\+44|0)[0-9]{10}$`)

	// 24-hour wall clock, e.g. "09:00" or "17:30".
	HHMMRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// RegisterCustom installs the uk_phone and hhmm validators on v.
func RegisterCustom(v *validator.Validate) error {
	if err := v.RegisterValidation("uk_phone", validateUKPhone); err != nil {
		return err
	}
	return v.RegisterValidation("hhmm", validateHHMM)
}

func validateUKPhone(fl validator.FieldLevel) bool {
	return UKPhoneRegex.MatchString(fl.Field().String())
}

func validateHHMM(fl validator.FieldLevel) bool {
	return HHMMRegex.MatchString(fl.Field().String())
}
