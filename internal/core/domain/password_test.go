package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"strong", "Sup3r$ecret", true},
		{"unicode letters", "Čau-Sv3te", true},
		{"too short", "Ab1!", false},
		{"too long", "Ab1!" + strings.Repeat("x", MaxPasswordLength), false},
		{"no upper", "sup3r$ecret", false},
		{"no lower", "SUP3R$ECRET", false},
		{"no digit", "Super$ecret", false},
		{"no special", "Sup3rSecret", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tc.password)
			if tc.ok && err != nil {
				t.Fatalf("expected %q to pass, got %v", tc.password, err)
			}
			if !tc.ok && !errors.Is(err, ErrWeakPassword) {
				t.Fatalf("expected ErrWeakPassword for %q, got %v", tc.password, err)
			}
		})
	}
}
