package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production.
// Each +1 doubles the hashing time; 12 is roughly 250ms on a server core.
const DefaultCost = 12

// ErrPasswordMismatch is returned by Verify when the password is wrong.
var ErrPasswordMismatch = errors.New("auth: invalid password")

// PasswordService is the credential checker behind login.
//
// Account records only ever hold the bcrypt output, which embeds the salt
// and cost, so Verify needs nothing but the stored string.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with DefaultCost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: DefaultCost}
}

// NewPasswordServiceWithCost lets config tune the work factor. Values
// outside bcrypt's range fall back to DefaultCost.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordService{cost: cost}
}

// NewPasswordServiceForTest uses the given (low) cost as-is.
// Do NOT use in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash hashes plaintext with bcrypt.
// bcrypt silently truncates past 72 bytes, so longer input is rejected.
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

// Verify returns nil if plaintext matches hash and ErrPasswordMismatch if
// it does not. Any other error means the stored hash is malformed.
func (p *PasswordService) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
	return nil
}
