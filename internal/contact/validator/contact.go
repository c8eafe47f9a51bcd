package validator

import (
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/logger"
	"github.com/odp-Dev/opendoor-growth-hub-main/pkg/model"

	"github.com/go-playground/validator/v10"
)

const MsgRequiredFields = "Please fill all required fields."

type ContactValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewContactValidator(log *logger.Logger) *ContactValidator {
	return &ContactValidator{validate: validator.New(), logger: log}
}

// Validate reports whether name, email and message are all present. The
// form only ever shows one message, so no per-field detail is returned.
func (v *ContactValidator) Validate(req *model.ContactRequest) bool {
	if err := v.validate.Struct(req); err != nil {
		v.logger.Debug("Contact form rejected", "error", err)
		return false
	}
	return true
}
