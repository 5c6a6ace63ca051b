package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Allow letters, numbers, spaces, and common business punctuation: . ' - / & ( ) ,
var nameRegex = regexp.MustCompile(`^[\p{L}0-9 .'/&(),-]+$`)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// ValidName validates that a string contains only valid display-name
// characters. Rejects most special symbols.
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		if r > 0x1F000 {
			return false // Supplementary characters (mostly emoji/symbols)
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
