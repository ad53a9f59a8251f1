// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country prefix.
const DefaultRegion = "US"

// NormalizeE164 formats a phone number to E.164 using DefaultRegion.
// If parsing fails or the number is not valid, it returns the trimmed input.
func NormalizeE164(input string) string {
	return NormalizeE164In(input, DefaultRegion)
}

// NormalizeE164In formats a phone number to E.164 using region for numbers
// without a country prefix.
func NormalizeE164In(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, ok := parseValid(trimmed, region)
	if !ok {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// Display renders a number in international format for listings, falling
// back to the trimmed input.
func Display(input string) string {
	trimmed := strings.TrimSpace(input)
	number, ok := parseValid(trimmed, DefaultRegion)
	if !ok {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}

// IsValid reports whether input parses to a valid number.
func IsValid(input string) bool {
	_, ok := parseValid(strings.TrimSpace(input), DefaultRegion)
	return ok
}

func parseValid(input, region string) (*phonenumbers.PhoneNumber, bool) {
	if input == "" {
		return nil, false
	}
	number, err := phonenumbers.Parse(input, region)
	if err != nil {
		return nil, false
	}
	if !phonenumbers.IsValidNumber(number) {
		return nil, false
	}
	return number, true
}
