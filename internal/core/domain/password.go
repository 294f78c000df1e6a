package domain

import "unicode"

const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
)

// ValidatePasswordStrength returns ErrWeakPassword unless p is between
// MinPasswordLength and MaxPasswordLength characters and mixes lowercase,
// uppercase, digits and at least one special character.
func ValidatePasswordStrength(p string) error {
	n := len([]rune(p))
	if n < MinPasswordLength || n > MaxPasswordLength {
		return ErrWeakPassword
	}

	var lower, upper, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return ErrWeakPassword
	}
	return nil
}
