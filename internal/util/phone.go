package util

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRecipient is returned when a recipient cannot be reduced to a
// dialable number.
var ErrInvalidRecipient = errors.New("invalid recipient phone number")

var (
	formPhonePattern   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	phoneSeparatorsSet = " \t-()"
)

// NormalizeRecipient reduces a raw phone number to "+<digits>" when it starts
// with a plus sign, or to bare digits otherwise. Separators and any other
// non-digit characters are dropped; a plus sign is never introduced.
func NormalizeRecipient(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("%w: value is empty", ErrInvalidRecipient)
	}

	trimmed := strings.TrimSpace(value)
	var b strings.Builder
	b.Grow(len(trimmed))
	rest := trimmed
	if strings.HasPrefix(trimmed, "+") {
		b.WriteByte('+')
		rest = trimmed[1:]
	}
	for _, r := range rest {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	normalized := b.String()
	if normalized == "" || normalized == "+" {
		return "", fmt.Errorf("%w: %q has no digits", ErrInvalidRecipient, value)
	}
	return normalized, nil
}

// ApplyDefaultCountryCode rewrites local numbers into international form using
// countryCode (digits only, e.g. "234"): "0803..." becomes "+234803...",
// "234803..." becomes "+234803..." and any other number without a leading plus
// is prefixed with "+234". Numbers that already start with "+" are returned
// trimmed but otherwise untouched.
func ApplyDefaultCountryCode(value, countryCode string) string {
	trimmed := strings.TrimSpace(value)
	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if trimmed == "" || countryCode == "" || strings.HasPrefix(trimmed, "+") {
		return trimmed
	}
	switch {
	case strings.HasPrefix(trimmed, "0"):
		return "+" + countryCode + trimmed[1:]
	case strings.HasPrefix(trimmed, countryCode):
		return "+" + trimmed
	default:
		return "+" + countryCode + trimmed
	}
}

// ValidateFormPhone checks a phone number as typed into the transaction form:
// after removing spaces, dashes and parentheses it must be 10 to 15 digits
// with an optional leading plus.
func ValidateFormPhone(value string) error {
	compact := strings.Map(func(r rune) rune {
		if strings.ContainsRune(phoneSeparatorsSet, r) {
			return -1
		}
		return r
	}, value)
	if !formPhonePattern.MatchString(compact) {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, value)
	}
	return nil
}
