package domain

import "fmt"

const (
	// MinPasswordLength is the floor below which hashing is refused outright.
	MinPasswordLength = 8
	maxPasswordLength = 128
)

// ValidatePassword enforces the baseline password policy before any KDF work.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d characters", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}
