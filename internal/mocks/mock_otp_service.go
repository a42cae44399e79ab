package mocks

import (
	"context"

	"github.com/you/eduauthsvc/domain"
)

// MockOTPService implements domain.OTPService interface for testing
type MockOTPService struct {
	IssueFunc     func(ctx context.Context, userID uint, email string) (string, error)
	VerifyFunc    func(ctx context.Context, email, code string) error
	CanResendFunc func(ctx context.Context, email string) (bool, int64, error)
}

// NewMockOTPService creates a new MockOTPService with default behaviors
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

// Issue creates a code and returns the plaintext
func (m *MockOTPService) Issue(ctx context.Context, userID uint, email string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID, email)
	}
	// Default behavior: fixed code
	return "123456", nil
}

// Verify checks and consumes a code
func (m *MockOTPService) Verify(ctx context.Context, email, code string) error {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, email, code)
	}
	// Default behavior: success
	return nil
}

// CanResend reports whether a new code may be sent yet
func (m *MockOTPService) CanResend(ctx context.Context, email string) (bool, int64, error) {
	if m.CanResendFunc != nil {
		return m.CanResendFunc(ctx, email)
	}
	// Default behavior: allowed
	return true, 0, nil
}

// Compile-time interface compliance verification
var _ domain.OTPService = (*MockOTPService)(nil)
