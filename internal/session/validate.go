package session

import (
	"regexp"
	"unicode"

	"github.com/saathghoomo/go-saath/internal/api"
)

const minPasswordLength = 6

// emailPattern is a shape check only (local@domain.tld); deliverability is
// the backend's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validPassword(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLower && hasUpper && hasDigit
}

// validateRegistration runs the pre-network checks; a non-nil result means
// no request may be issued.
func validateRegistration(name, email, password string) error {
	if name == "" {
		return api.NewValidationError("name", "Name is required")
	}
	if email == "" {
		return api.NewValidationError("email", "Email is required")
	}
	if !ValidEmail(email) {
		return api.NewValidationError("email", "Enter a valid email address")
	}
	if password == "" {
		return api.NewValidationError("password", "Password is required")
	}
	if !validPassword(password) {
		return api.NewValidationError("password",
			"Password must be at least 6 characters with one uppercase letter, one lowercase letter, and one number")
	}

	return nil
}

func validateLogin(email, password string) error {
	if email == "" {
		return api.NewValidationError("email", "Email is required")
	}
	if password == "" {
		return api.NewValidationError("password", "Password is required")
	}

	return nil
}
