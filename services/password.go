package services

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidatePassword enforces the password rules shared by registration and
// invitation acceptance: length, one uppercase letter, one digit, one
// special character, and not on the common-password blacklist.
func ValidatePassword(password string, blackList map[string]bool) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long: %w", ErrValidation)
	}

	hasUppercase := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUppercase = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasUppercase {
		return fmt.Errorf("password must contain at least one uppercase letter: %w", ErrValidation)
	}
	if !hasDigit {
		return fmt.Errorf("password must contain at least one number: %w", ErrValidation)
	}

	const specialChars = "!@#$%^&*.,"
	hasSpecial := false
	for _, char := range password {
		if strings.ContainsRune(specialChars, char) {
			hasSpecial = true
			break
		}
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain at least one special character: %w", ErrValidation)
	}

	if blackList[password] {
		return fmt.Errorf("password is too common, please choose a stronger one: %w", ErrValidation)
	}

	return nil
}
