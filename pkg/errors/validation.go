package errors

import (
	"strconv"
	"strings"
)

// ValidateDimension checks that a canvas dimension lies within [min, max].
// The name is used in the message ("width", "height").
func ValidateDimension(name string, value, min, max int) error {
	if value < min {
		return New(ErrCodeInvalidDimension, "%s %d is below the minimum of %d", name, value, min)
	}
	if value > max {
		return New(ErrCodeInvalidDimension, "%s %d is above the maximum of %d", name, value, max)
	}
	return nil
}

// ValidatePositive checks that a size parameter is strictly positive.
func ValidatePositive(name string, value int) error {
	if value <= 0 {
		return New(ErrCodeInvalidDimension, "%s must be positive, got %d", name, value)
	}
	return nil
}

// ParseDimension converts a textual dimension into an integer.
// Non-numeric input fails with INVALID_DIMENSION.
func ParseDimension(name, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, New(ErrCodeInvalidDimension, "%s %q is not a number", name, raw)
	}
	return v, nil
}

// ValidateBarcode checks that every bit is 0 or 1.
func ValidateBarcode(bits []int) error {
	for i, b := range bits {
		if b != 0 && b != 1 {
			return New(ErrCodeInvalidBarcode, "barcode can only contain ones and zeros (got %d at position %d)", b, i)
		}
	}
	return nil
}

// ValidateColor checks a "#RRGGBB" or "#RRGGBBAA" color token.
func ValidateColor(name, token string) error {
	hex := strings.TrimPrefix(token, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return New(ErrCodeInvalidColor, "%s color %q must be #RRGGBB or #RRGGBBAA", name, token)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return New(ErrCodeInvalidColor, "%s color %q is not hexadecimal", name, token)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
