package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Workspace fields
	"Name":      "Workspace name",
	"Subdomain": "Subdomain",

	// Onboarding fields
	"Answers": "Questionnaire answers",
	"Action":  "Review action",
	"Reason":  "Review reason",

	// Auth fields
	"Email":    "Email",
	"Password": "Password",
	"Role":     "Role",
}

func label(field string) string {
	if l, ok := FieldLabels[field]; ok {
		return l
	}
	return field
}

// FormatValidationErrors converts validator.ValidationErrors to
// user-friendly messages
func FormatValidationErrors(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	var messages []string
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into one string for error envelopes.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	l := label(e.Field())
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", l)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", l, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", l, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", l)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", l, e.Param())
	case "hostname_rfc1123":
		return fmt.Sprintf("%s must be a valid hostname label", l)
	case "valid_name":
		return fmt.Sprintf("%s contains invalid characters", l)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji", l)
	default:
		return fmt.Sprintf("%s is invalid (%s)", l, e.Tag())
	}
}
