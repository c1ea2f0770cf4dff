// Package auth provides the credential primitives for the portal: bcrypt
// password hashing, session token issuance, Google identity verification,
// and the HTTP middleware that guards protected routes.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService provides bcrypt hashing and verification.
//
// It's a struct (not free functions) so the cost can be injected: production
// uses the configured cost, tests use bcrypt.MinCost to stay fast without
// changing the logic under test.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the given bcrypt cost.
// The cost comes from config; 12 is the production default.
func NewPasswordService(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// NewPasswordServiceForTest creates a PasswordService with bcrypt cost 4
// (the minimum allowed), avoiding the ~250ms per hash of the real cost.
// Do NOT use in production.
func NewPasswordServiceForTest() *PasswordService {
	return &PasswordService{cost: bcrypt.MinCost}
}

// Hash hashes the given plaintext password with bcrypt.
//
// The output is a self-contained string; salt and cost are embedded, so it
// can be stored directly and later checked with Verify.
//
// Returns an error if the plaintext is too long (>72 bytes, a bcrypt limit
// it would otherwise silently truncate at).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks whether a plaintext password matches a stored bcrypt hash.
// Returns nil on a match. bcrypt.CompareHashAndPassword compares in constant
// time, so response timing does not leak how close a guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("auth: invalid password")
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}

// UnusableHash returns a valid bcrypt hash of 32 random bytes.
//
// Accounts created through Google sign-in get this as their stored
// credential: the plaintext is 64 hex characters nobody ever sees, so
// password login cannot succeed until profile completion stores a real
// password.
func (p *PasswordService) UnusableHash() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: generating placeholder secret: %w", err)
	}
	return p.Hash(hex.EncodeToString(buf))
}
