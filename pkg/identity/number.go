package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var nonDigitRegex = regexp.MustCompile(`\D`)

// NormalizeNumber strips every non-digit and prefixes a bare 10 digit number with the North American
// country code. The result is the only form used as a map key or conversation identifier.
func NormalizeNumber(raw string) string {
	digits := nonDigitRegex.ReplaceAllString(raw, "")
	if len(digits) == 10 {
		digits = "1" + digits
	}
	return digits
}

// FormatNumber renders a number for display: "(555) 123-4567" for North American numbers, the
// international format for other valid numbers, and the input unchanged otherwise.
func FormatNumber(number string) string {
	if local, ok := northAmericanDigits(number); ok {
		return fmt.Sprintf("(%s) %s-%s", local[0:3], local[3:6], local[6:])
	}
	if international, ok := formatInternational(number); ok {
		return international
	}
	return number
}

// FormatNumberSimple renders a North American number as "555-123-4567", used in participant lists
// and search data. Other numbers are returned unchanged.
func FormatNumberSimple(number string) string {
	if local, ok := northAmericanDigits(number); ok {
		return fmt.Sprintf("%s-%s-%s", local[0:3], local[3:6], local[6:])
	}
	return number
}

func northAmericanDigits(number string) (string, bool) {
	switch {
	case len(number) == 11 && strings.HasPrefix(number, "1") && isDigits(number):
		return number[1:], true
	case len(number) == 10 && isDigits(number):
		return number, true
	}
	return "", false
}

func formatInternational(number string) (string, bool) {
	if len(number) < 8 || !isDigits(number) {
		return "", false
	}
	parsed, err := phonenumbers.Parse("+"+number, "")
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return "", false
	}
	return phonenumbers.Format(parsed, phonenumbers.INTERNATIONAL), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// LooksLikeNumber reports whether a display name is really a phone number, i.e. it holds nothing but
// digits and phone punctuation.
func LooksLikeNumber(name string) bool {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if (r < '0' || r > '9') && !strings.ContainsRune("+-() .", r) {
			return false
		}
	}
	return true
}

// IsUnknownName reports whether a contact name attribute carries no real name. Exports use
// "(Unknown)" on text records and "Unknown" on media records.
func IsUnknownName(name string) bool {
	switch strings.TrimSpace(name) {
	case "", "Unknown", "(Unknown)":
		return true
	}
	return false
}
