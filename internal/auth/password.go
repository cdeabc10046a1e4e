package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// specialChars is the punctuation set that satisfies the special-character rule.
const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// PasswordPolicy hashes, verifies and validates passwords. The bcrypt cost and
// minimum length come from configuration, injected at construction.
type PasswordPolicy struct {
	cost      int
	minLength int
}

// NewPasswordPolicy creates a policy with the given work factor and minimum length.
func NewPasswordPolicy(cost, minLength int) *PasswordPolicy {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if minLength <= 0 {
		minLength = 8
	}
	return &PasswordPolicy{cost: cost, minLength: minLength}
}

// Hash applies a salted one-way transform to the plaintext.
func (p *PasswordPolicy) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash.
func (p *PasswordPolicy) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidateComplexity checks length and required character classes. The error
// message names every missing class, not just the first.
func (p *PasswordPolicy) ValidateComplexity(plaintext string) error {
	if plaintext == "" {
		return fmt.Errorf("Password is required")
	}
	if len(plaintext) < p.minLength {
		return fmt.Errorf("Password must be at least %d characters long", p.minLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range plaintext {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	var missing []string
	if !hasUpper {
		missing = append(missing, "uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "number")
	}
	if !hasSpecial {
		missing = append(missing, "special character")
	}

	if len(missing) > 0 {
		return fmt.Errorf("Password must include at least one %s", strings.Join(missing, ", "))
	}
	return nil
}
