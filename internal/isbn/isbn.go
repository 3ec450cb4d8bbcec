// Package isbn validates and normalises ISBN-10 and ISBN-13 strings.
package isbn

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid ISBN")

// Normalize strips spaces and hyphens and upper-cases a trailing x check digit.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == '-' || r == ' ':
			continue
		case r == 'x':
			b.WriteRune('X')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate returns the normalised ISBN, or an error wrapping ErrInvalid.
func Validate(raw string) (string, error) {
	code := Normalize(raw)
	switch len(code) {
	case 10:
		if validISBN10(code) {
			return code, nil
		}
	case 13:
		if validISBN13(code) {
			return code, nil
		}
	default:
		return "", fmt.Errorf("%w: %q must have 10 or 13 digits", ErrInvalid, raw)
	}
	return "", fmt.Errorf("%w: %q has a bad check digit", ErrInvalid, raw)
}

// IsValid reports whether raw is a syntactically valid ISBN-10 or ISBN-13.
func IsValid(raw string) bool {
	_, err := Validate(raw)
	return err == nil
}

func validISBN10(code string) bool {
	sum := 0
	for i, r := range code {
		var digit int
		switch {
		case r >= '0' && r <= '9':
			digit = int(r - '0')
		case r == 'X' && i == 9:
			digit = 10
		default:
			return false
		}
		sum += (10 - i) * digit
	}
	return sum%11 == 0
}

func validISBN13(code string) bool {
	if !strings.HasPrefix(code, "978") && !strings.HasPrefix(code, "979") {
		return false
	}
	sum := 0
	for i, r := range code {
		if r < '0' || r > '9' {
			return false
		}
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return sum%10 == 0
}
