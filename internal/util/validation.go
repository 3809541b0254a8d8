package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EnsureMinRunes ensures a trimmed string meets a minimum rune length
// requirement.
func EnsureMinRunes(field, value string, min int) error {
	if min <= 0 {
		return nil
	}

	length := utf8.RuneCountInString(strings.TrimSpace(value))
	if length < min {
		return fmt.Errorf("%s must be at least %d characters", field, min)
	}
	return nil
}

// EnsureDigits ensures value consists of exactly n ASCII digits.
func EnsureDigits(field, value string, n int) error {
	if len(value) != n {
		return fmt.Errorf("%s must be exactly %d digits", field, n)
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return fmt.Errorf("%s must be exactly %d digits", field, n)
		}
	}
	return nil
}
