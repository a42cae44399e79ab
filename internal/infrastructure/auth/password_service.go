package auth

import (
	"github.com/you/eduauthsvc/domain"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher implements domain.Hasher. The same adaptive hash backs both
// password storage and one-time-code storage; the cost factor is injected so
// it can be tuned per environment.
type BcryptHasher struct {
	cost int
}

// NewHasher creates a bcrypt-backed hasher with the default cost
func NewHasher() domain.Hasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

// NewHasherWithCost creates a bcrypt-backed hasher with an explicit cost
func NewHasherWithCost(cost int) domain.Hasher {
	return &BcryptHasher{cost: cost}
}

// Hash implements domain.Hasher
func (p *BcryptHasher) Hash(plaintext string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.Hasher
func (p *BcryptHasher) Verify(hashed, plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext))
	return err == nil
}
