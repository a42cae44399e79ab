package mocks

import (
	"time"

	"github.com/you/eduauthsvc/domain"
)

// MockTokenService implements domain.TokenService interface for testing
type MockTokenService struct {
	IssueFunc    func(user *domain.User, ttl time.Duration, purpose string) (string, error)
	ValidateFunc func(token string) (*domain.TokenClaims, error)
}

// NewMockTokenService creates a new MockTokenService with default behaviors
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

// Issue signs a token for the user
func (m *MockTokenService) Issue(user *domain.User, ttl time.Duration, purpose string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(user, ttl, purpose)
	}
	// Default behavior: opaque token tagged with the purpose
	return "mock-token-" + purpose, nil
}

// Validate parses and verifies a token
func (m *MockTokenService) Validate(token string) (*domain.TokenClaims, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(token)
	}
	// Default behavior: invalid
	return nil, domain.ErrTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.TokenService = (*MockTokenService)(nil)
