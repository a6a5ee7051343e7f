package customvalidator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"supportdesk/pkg/constants"
)

var (
	monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	otpRegex   = regexp.MustCompile(`^\d{6}$`)
)

// RegisterCustomValidations wires the project-specific validation rules into
// the shared validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("billing_month", isBillingMonth); err != nil {
		return err
	}
	if err := v.RegisterValidation("ticket_priority", isTicketPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("support_type", isSupportType); err != nil {
		return err
	}
	if err := v.RegisterValidation("otp_code", isOTPCode); err != nil {
		return err
	}
	return nil
}

// isBillingMonth accepts the YYYY-MM keys used by bundles and quota rows.
func isBillingMonth(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}

func isTicketPriority(fl validator.FieldLevel) bool {
	return constants.IsValidPriority(fl.Field().String())
}

func isSupportType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Standard", "Premium", "Premium Plus":
		return true
	}
	return false
}

func isOTPCode(fl validator.FieldLevel) bool {
	return otpRegex.MatchString(fl.Field().String())
}
