package security

import (
	"fmt"
	"strings"
)

// MinPasswordLength is the shortest password accepted at registration or profile update.
const MinPasswordLength = 8

// Password strength failures, reported per field by callers.
var (
	ErrPasswordTooShort  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordNumeric   = fmt.Errorf("password cannot be entirely numeric")
	ErrPasswordMatchesID = fmt.Errorf("password is too similar to the email")
)

// ValidatePasswordStrength rejects short, all-digit, or email-derived passwords.
func ValidatePasswordStrength(password, email string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.Trim(password, "0123456789") == "" {
		return ErrPasswordNumeric
	}
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if local != "" && strings.Contains(strings.ToLower(password), local) {
		return ErrPasswordMatchesID
	}
	return nil
}
