// Package sanitizer normalizes free-form customer input before validation
// and persistence: names, emails and phone numbers arrive from a public
// booking form and are stored in a canonical shape.
package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	rePhoneNoise = regexp.MustCompile(`[\s\-().]+`)
	rePhoneE164  = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// into single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone strips separators and keeps an optional leading plus.
// Input that does not look like a dialable number after stripping is
// returned empty so validation rejects it with a field-level message.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	plus := strings.HasPrefix(phone, "+")
	digits := rePhoneNoise.ReplaceAllString(phone, "")
	digits = strings.TrimPrefix(digits, "+")

	candidate := digits
	if plus {
		candidate = "+" + digits
	}
	if !rePhoneE164.MatchString(candidate) {
		return ""
	}
	return candidate
}
