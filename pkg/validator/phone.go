package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrInvalidLength indicates phone number is outside the E.164 length range
	ErrInvalidLength = errors.New("phone number must be between 8 and 15 digits")

	// ErrInvalidCountryCode indicates the country code starts with zero
	ErrInvalidCountryCode = errors.New("phone number country code cannot start with 0")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator validates international phone numbers in E.164 form
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates an international phone number.
// Accepts formats like +14155550100, +1 415 555 0100, or (415) 555-0100
// with a country code. Returns the normalized E.164 number (+ followed by
// digits) and an error if invalid.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)
	if sanitized == "" {
		return "", ErrEmptyPhone
	}

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	if len(sanitized) < 8 || len(sanitized) > 15 {
		return "", ErrInvalidLength
	}

	// E.164 country codes never start with zero
	if sanitized[0] == '0' {
		return "", ErrInvalidCountryCode
	}

	return "+" + sanitized, nil
}

// Sanitize removes the leading + and all common separators, leaving digits
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.TrimPrefix(phone, "+")

	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	return replacer.Replace(phone)
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}

// Format validates the number and returns it with the country code
// separated for display, e.g. +1 4155550100
func (v *PhoneValidator) Format(phone string, countryCodeDigits int) (string, error) {
	normalized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	digits := normalized[1:]
	if countryCodeDigits < 1 || countryCodeDigits >= len(digits) {
		return "", fmt.Errorf("invalid country code length %d", countryCodeDigits)
	}

	return fmt.Sprintf("+%s %s", digits[:countryCodeDigits], digits[countryCodeDigits:]), nil
}
