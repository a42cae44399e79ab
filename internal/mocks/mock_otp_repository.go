package mocks

import (
	"context"

	"github.com/you/eduauthsvc/domain"
)

// MockOTPRepository implements domain.OTPRepository interface for testing
type MockOTPRepository struct {
	CreateFunc     func(ctx context.Context, code *domain.OneTimeCode) error
	FindActiveFunc func(ctx context.Context, email string) (*domain.OneTimeCode, error)
	ConsumeFunc    func(ctx context.Context, id uint) error
}

// NewMockOTPRepository creates a new MockOTPRepository with default behaviors
func NewMockOTPRepository() *MockOTPRepository {
	return &MockOTPRepository{}
}

// Create persists a new code record
func (m *MockOTPRepository) Create(ctx context.Context, code *domain.OneTimeCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, code)
	}
	// Default behavior: success
	return nil
}

// FindActive returns the latest live record for the email
func (m *MockOTPRepository) FindActive(ctx context.Context, email string) (*domain.OneTimeCode, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx, email)
	}
	// Default behavior: not found
	return nil, domain.ErrOTPNotFound
}

// Consume marks the record used
func (m *MockOTPRepository) Consume(ctx context.Context, id uint) error {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, id)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.OTPRepository = (*MockOTPRepository)(nil)
