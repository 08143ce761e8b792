package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyName indicates the passenger name is missing
	ErrEmptyName = errors.New("passenger name cannot be empty")

	// ErrNameTooLong indicates the passenger name exceeds the allowed length
	ErrNameTooLong = errors.New("passenger name cannot exceed 100 characters")

	// ErrInvalidGender indicates the gender is not one of the accepted values
	ErrInvalidGender = errors.New("gender must be male, female, or other")

	// ErrInvalidPhone indicates the phone number contains invalid characters or length
	ErrInvalidPhone = errors.New("phone number must be 7 to 15 digits")

	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("invalid email address")
)

// validGenders contains the accepted gender values
var validGenders = []string{"male", "female", "other"}

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// emailRegex is a pragmatic check, not a full RFC 5322 parser
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// PassengerValidator handles passenger detail validation
type PassengerValidator struct{}

// NewPassengerValidator creates a new passenger validator instance
func NewPassengerValidator() *PassengerValidator {
	return &PassengerValidator{}
}

// Validate checks a full set of passenger details.
// Phone and email are optional; empty values pass.
func (v *PassengerValidator) Validate(name, gender, phone, email string) error {
	if err := v.ValidateName(name); err != nil {
		return err
	}
	if err := v.ValidateGender(gender); err != nil {
		return err
	}
	if err := v.ValidatePhone(phone); err != nil {
		return err
	}
	return v.ValidateEmail(email)
}

// ValidateName checks that the passenger name is present and within bounds
func (v *PassengerValidator) ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrEmptyName
	}
	if len(trimmed) > 100 {
		return ErrNameTooLong
	}
	return nil
}

// ValidateGender checks the gender against the accepted values
func (v *PassengerValidator) ValidateGender(gender string) error {
	normalized := strings.ToLower(strings.TrimSpace(gender))
	for _, g := range validGenders {
		if normalized == g {
			return nil
		}
	}
	return ErrInvalidGender
}

// ValidatePhone checks an optional phone number.
// Accepts formats like 0771234567, +94 77 123 4567, or 077-123-4567.
func (v *PassengerValidator) ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}

	sanitized := v.SanitizePhone(phone)
	if !phoneRegex.MatchString(sanitized) {
		return ErrInvalidPhone
	}
	if len(sanitized) < 7 || len(sanitized) > 15 {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateEmail checks an optional email address
func (v *PassengerValidator) ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// SanitizePhone removes common separators from a phone number
func (v *PassengerValidator) SanitizePhone(phone string) string {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")
	phone = strings.ReplaceAll(phone, "+", "")
	phone = strings.ReplaceAll(phone, ".", "")
	return phone
}

// IsValid is a convenience method that returns true if all details are valid
func (v *PassengerValidator) IsValid(name, gender, phone, email string) bool {
	return v.Validate(name, gender, phone, email) == nil
}
