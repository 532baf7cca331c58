// Package hash provides the password hashing primitive for the users feature.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher hashes and verifies passwords with bcrypt.
// The stored form is self-describing: it carries the algorithm marker, the
// cost factor and the salt inline, so Verify needs no extra parameters.
// The zero-cost constructor falls back to bcrypt.DefaultCost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given bcrypt cost.
// Costs outside the valid bcrypt range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash derives the salted stored form of a plaintext password.
// Two calls with the same plaintext produce different stored forms because
// bcrypt generates a fresh salt per call.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored form.
// It returns false on any parse error of the stored form and never panics,
// so callers can feed it untrusted data.
func (h *BcryptHasher) Verify(plaintext, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plaintext)) == nil
}
