package mocks

import "github.com/you/eduauthsvc/domain"

// MockHasher implements domain.Hasher interface for testing
type MockHasher struct {
	HashFunc   func(plaintext string) (string, error)
	VerifyFunc func(hashed, plaintext string) bool
}

// NewMockHasher creates a new MockHasher with default behaviors
func NewMockHasher() *MockHasher {
	return &MockHasher{}
}

// Hash hashes the plaintext
func (m *MockHasher) Hash(plaintext string) (string, error) {
	if m.HashFunc != nil {
		return m.HashFunc(plaintext)
	}
	// Default behavior: reversible fake hash
	return "hashed:" + plaintext, nil
}

// Verify compares a hash against a plaintext
func (m *MockHasher) Verify(hashed, plaintext string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(hashed, plaintext)
	}
	// Default behavior: matches the fake hash scheme
	return hashed == "hashed:"+plaintext
}

// Compile-time interface compliance verification
var _ domain.Hasher = (*MockHasher)(nil)
