package validator

import (
	"errors"
	"fmt"
	"strings"

	"zinbook/pkg/logger"
	"zinbook/pkg/model"
	"zinbook/pkg/timeslot"
	"zinbook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type RuleValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewRuleValidator(log *logger.Logger) *RuleValidator {
	v := validator.New()

	if err := validation.RegisterCustom(v); err != nil {
		log.Fatal("Failed to register custom validators", "error", err)
	}

	return &RuleValidator{
		validate: v,
		logger:   log,
	}
}

func (v *RuleValidator) Validate(rule *model.AvailabilityRule) error {
	if err := v.validate.Struct(rule); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	// Both times parse after the hhmm tag passed; ordering is the only
	// remaining structural check.
	startMin, _ := timeslot.ParseHHMM(rule.StartTime)
	endMin, _ := timeslot.ParseHHMM(rule.EndTime)
	if startMin >= endMin {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "hhmm":
			message = fmt.Sprintf("%s must be a 24-hour time in HH:MM format (e.g., 09:30)", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
