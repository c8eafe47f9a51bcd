package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	MsgNameTooShort       = "Name must be at least 2 characters long"
	MsgEmailInvalid       = "Valid email address is required"
	MsgServiceTypeMissing = "Service type is required"
	MsgDateMissing        = "Preferred date is required"
	MsgDateInvalid        = "Valid future date is required"
	MsgTimeMissing        = "Preferred time is required"
	MsgPhoneInvalid       = "Phone number format is invalid"
	MsgInvalidCharacters  = "Invalid characters detected"
)

var (
	emailRegex             = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex             = regexp.MustCompile(`^[\d\s\-\+\(\)]{10,20}$`)
	suspiciousContentRegex = regexp.MustCompile(`(?i)<script|javascript:|on\w+\s*=`)

	messages = map[string]string{
		"name.trimmed_min":            MsgNameTooShort,
		"email.booking_email":         MsgEmailInvalid,
		"serviceType.required":        MsgServiceTypeMissing,
		"preferredDate.required":      MsgDateMissing,
		"preferredDate.calendar_date": MsgDateInvalid,
		"preferredDate.not_past":      MsgDateInvalid,
		"preferredTime.required":      MsgTimeMissing,
		"phone.booking_phone":         MsgPhoneInvalid,
	}

	dateLayouts = []string{time.DateOnly, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}
)

// ValidationResult lists every violation found, in reporting order.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	now      func() time.Time
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	bv := &BookingValidator{
		logger: log,
		now:    time.Now,
	}

	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)

	custom := map[string]validator.Func{
		"trimmed_min":   validateTrimmedMin,
		"booking_email": validateEmail,
		"booking_phone": validatePhone,
		"calendar_date": validateCalendarDate,
		"not_past":      bv.validateNotPast,
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register booking validator", "tag", tag, "error", err)
		}
	}

	bv.validate = v
	log.Info("Booking validator initialized successfully")
	return bv
}

// Validate checks a booking request and collects all violations rather
// than stopping at the first one. The content guard runs last and is
// reported once however many fields trip it.
func (v *BookingValidator) Validate(req *model.BookingRequest) ValidationResult {
	var errs []string

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			v.logger.Error("Booking validation could not run", "error", err)
			return ValidationResult{Valid: false, Errors: []string{err.Error()}}
		}
		errs = append(errs, translate(validationErrs)...)
	}

	if containsSuspiciousContent(req.Name, req.Message, req.ServiceType) {
		errs = append(errs, MsgInvalidCharacters)
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidateStatusUpdate checks an operator status change.
func (v *BookingValidator) ValidateStatusUpdate(update *model.BookingStatusUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			fe := validationErrs[0]
			if fe.Tag() == "required" {
				return fmt.Errorf("%s is required", fe.Field())
			}
			return fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param())
		}
		return err
	}
	return nil
}

// ParsePreferredDate reads a calendar date. Date-only values are midnight
// UTC.
func ParsePreferredDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func translate(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fmt.Sprintf("%s is invalid", fe.Field()))
	}
	return out
}

func containsSuspiciousContent(fields ...string) bool {
	for _, f := range fields {
		if f != "" && suspiciousContentRegex.MatchString(f) {
			return true
		}
	}
	return false
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func validateTrimmedMin(fl validator.FieldLevel) bool {
	minLen, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minLen
}

func validateEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := ParsePreferredDate(fl.Field().String())
	return err == nil
}

func (v *BookingValidator) validateNotPast(fl validator.FieldLevel) bool {
	t, err := ParsePreferredDate(fl.Field().String())
	if err != nil {
		return false
	}
	return !t.Before(v.now())
}
