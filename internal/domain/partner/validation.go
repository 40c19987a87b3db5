package partner

import (
	"regexp"

	"github.com/exonyb/backoffice/internal/domain/shared"
)

var (
	phoneRegex = regexp.MustCompile(`^[\d\s\-\(\)\+\.]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

func validatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	if len(phone) > 30 {
		return shared.NewBadRequestError("INVALID_PHONE", "Phone number cannot exceed 30 characters")
	}
	if !phoneRegex.MatchString(phone) {
		return shared.NewBadRequestError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewBadRequestError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewBadRequestError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validateAddress(address string) error {
	if len(address) > 500 {
		return shared.NewBadRequestError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}
	return nil
}
