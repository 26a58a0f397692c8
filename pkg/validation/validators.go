package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Letters, spaces and the punctuation found in French names: . ' - and the typographic apostrophe
	nameRegex = regexp.MustCompile(`^[\p{L} .'’-]+$`)

	// French numbers (0X XX XX XX XX, +33 X XX XX XX XX) or any international E.164 number
	frenchPhoneRegex = regexp.MustCompile(`^(?:\+33|0033|0)[1-9][0-9]{8}$`)
	intlPhoneRegex   = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

	phoneSeparators = strings.NewReplacer(" ", "", ".", "", "-", "", "(", "", ")", "")
)

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidPhone accepts the usual French spellings of a phone number.
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return IsPhone(val)
}

func IsPhone(val string) bool {
	n := phoneSeparators.Replace(val)
	return frenchPhoneRegex.MatchString(n) || intlPhoneRegex.MatchString(n)
}

// NormalizePhone strips separators and rewrites French numbers to +33 form.
// Values that are not phone numbers are returned trimmed.
func NormalizePhone(val string) string {
	n := phoneSeparators.Replace(strings.TrimSpace(val))
	if !frenchPhoneRegex.MatchString(n) {
		if intlPhoneRegex.MatchString(n) {
			return n
		}
		return strings.TrimSpace(val)
	}
	switch {
	case strings.HasPrefix(n, "+33"):
		return n
	case strings.HasPrefix(n, "0033"):
		return "+33" + n[4:]
	default:
		return "+33" + n[1:]
	}
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
