package validation

import (
	"errors"
	"strings"
)

// ErrLocationEmpty is returned when location is empty or whitespace-only after trim.
var ErrLocationEmpty = errors.New("location is required")

// ValidateLocation trims the input and rejects empty names.
// Names are otherwise opaque: the upstream service decides whether they resolve.
func ValidateLocation(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrLocationEmpty
	}
	return s, nil
}
