package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chefly/pkg/logger"
	"chefly/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
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

type EventValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewEventValidator(log *logger.Logger) *EventValidator {
	v := validator.New()

	if err := v.RegisterValidation("event_date", validateEventDate); err != nil {
		log.Fatal("Failed to register 'event_date' validator", "error", err)
	}
	if err := v.RegisterValidation("event_time", validateEventTime); err != nil {
		log.Fatal("Failed to register 'event_time' validator", "error", err)
	}

	return &EventValidator{
		validate: v,
		logger:   log,
	}
}

func validateEventDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dateLayout, fl.Field().String())
	return err == nil
}

func validateEventTime(fl validator.FieldLevel) bool {
	_, err := time.Parse(timeLayout, fl.Field().String())
	return err == nil
}

// ParseStartTime combines the request's date and time-of-day into a
// single UTC instant for storage and scheduler window queries.
func ParseStartTime(eventDate, eventTime string) (time.Time, error) {
	return time.Parse(dateLayout+" "+timeLayout, eventDate+" "+eventTime)
}

func (v *EventValidator) ValidateRequest(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	startTime, err := ParseStartTime(req.EventDate, req.EventTime)
	if err != nil {
		return ValidationErrors{
			ValidationError{
				Field:   "EventDate",
				Message: "event_date and event_time do not form a valid timestamp",
			},
		}
	}

	if startTime.Before(time.Now().UTC()) {
		return ValidationErrors{
			ValidationError{
				Field:   "EventDate",
				Message: "booking start time cannot be in the past",
			},
		}
	}

	for i, item := range req.MenuItems {
		if item.Quantity < 1 {
			return ValidationErrors{
				ValidationError{
					Field:   "MenuItems",
					Message: fmt.Sprintf("menu item %d quantity must be at least 1", i),
				},
			}
		}
	}

	return nil
}

func (v *EventValidator) ValidateDecision(decision *model.BookingDecision) error {
	if err := v.validate.Struct(decision); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !decision.Accept && strings.TrimSpace(decision.Reason) == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "Reason",
				Message: "a rejection requires a non-empty reason",
			},
		}
	}

	return nil
}

func (v *EventValidator) ValidateReview(req *model.ReviewRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *EventValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "event_date":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "event_time":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
