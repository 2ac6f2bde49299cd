package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatErrors renders a validator error into one human-readable line
// per failing field, joined with "; ". Non-validation errors pass
// through unchanged.
func FormatErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}
	return strings.Join(messages, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := spacedField(e.Field())

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Split(e.Param(), " "), ", "))
	case "person_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", field)
	case "phone_e164":
		return fmt.Sprintf("%s must be 7-15 digits, optionally prefixed with +", field)
	case "country_code":
		return fmt.Sprintf("%s must be a two-letter country code", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}

// spacedField turns CamelCase struct field names into spaced words.
func spacedField(name string) string {
	var b strings.Builder
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
