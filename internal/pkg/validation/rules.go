// Package validation holds the credential and role policy: pure rules
// applied by the services before any storage call.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/uasphere/uas-backend/internal/pkg/apperrors"
)

// Policy limits
const (
	PasswordMinLength   = 8
	LoginIDMaxLength    = 50
	NewLoginIDMinLength = 5
	NameMaxLength       = 50
)

// EmailPattern is the account email format rule.
var EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

var emailRegex = regexp.MustCompile(EmailPattern)

// ValidLoginID checks the login identifier rule: non-empty, at most 50 chars.
func ValidLoginID(loginID string) error {
	loginID = strings.TrimSpace(loginID)
	if loginID == "" {
		return fmt.Errorf("%w: login ID cannot be empty", apperrors.ErrValidationFailed)
	}
	if len(loginID) > LoginIDMaxLength {
		return fmt.Errorf("%w: login ID must be at most %d characters", apperrors.ErrInvalidLoginID, LoginIDMaxLength)
	}
	return nil
}

// ValidNewLoginID applies the stricter rule for choosing a new login ID.
func ValidNewLoginID(loginID string) error {
	if err := ValidLoginID(loginID); err != nil {
		return err
	}
	if len(strings.TrimSpace(loginID)) < NewLoginIDMinLength {
		return fmt.Errorf("%w: login ID must be at least %d characters", apperrors.ErrInvalidLoginID, NewLoginIDMinLength)
	}
	return nil
}

// ValidPassword checks the password policy.
func ValidPassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}
	if len(password) < PasswordMinLength {
		return fmt.Errorf("%w: password must be at least %d characters long", apperrors.ErrInvalidPassword, PasswordMinLength)
	}
	return nil
}

// ValidEmail checks the email format rule.
func ValidEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !emailRegex.MatchString(email) {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

// ValidName checks a first or last name.
func ValidName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: %s cannot be empty", apperrors.ErrValidationFailed, field)
	}
	if len(name) > NameMaxLength {
		return fmt.Errorf("%w: %s must be at most %d characters", apperrors.ErrValidationFailed, field, NameMaxLength)
	}
	return nil
}
