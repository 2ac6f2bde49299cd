// Package validation carries the gateway's custom validator tags and the
// human-readable rendering of validation failures.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, digits, spaces and common professional punctuation.
	personNameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

	// E.164-ish: optional +, 7 to 15 digits.
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

	// ISO 3166-1 alpha-2, upper case.
	countryCodeRegex = regexp.MustCompile(`^[A-Z]{2}$`)
)

// Register installs the custom tags on a validator instance. All tags
// treat an empty string as valid; combine with required where needed.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("person_name", personName)
	_ = v.RegisterValidation("phone_e164", phoneE164)
	_ = v.RegisterValidation("country_code", countryCode)
}

func personName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || personNameRegex.MatchString(val)
}

func phoneE164(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || phoneRegex.MatchString(val)
}

func countryCode(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == "" || countryCodeRegex.MatchString(val)
}
