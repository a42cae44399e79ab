package mocks

import (
	"context"

	"github.com/you/eduauthsvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	RegisterFunc                    func(ctx context.Context, username, email, password string, sel domain.CatalogSelection) (*domain.User, error)
	LoginFunc                       func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	RefreshAccessTokenFunc          func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	RequestPasswordResetFunc        func(ctx context.Context, email string) error
	VerifyOTPAndIssueResetTokenFunc func(ctx context.Context, email, code string) (string, error)
	ResetPasswordFunc               func(ctx context.Context, resetToken, newPassword string) error
	RequestEmailVerificationFunc    func(ctx context.Context, email string) error
	VerifyEmailFunc                 func(ctx context.Context, email, code string) error
	GetUserProfileFunc              func(ctx context.Context, userID uint) (*domain.User, error)
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Register registers a new user
func (m *MockAuthService) Register(ctx context.Context, username, email, password string, sel domain.CatalogSelection) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, username, email, password, sel)
	}
	return &domain.User{ID: 1, Username: username, Email: email, Role: domain.RoleStudent}, nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

// RefreshAccessToken exchanges a refresh token for a new access token
func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshAccessTokenFunc != nil {
		return m.RefreshAccessTokenFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalid
}

// RequestPasswordReset starts the reset flow
func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(ctx, email)
	}
	return nil
}

// VerifyOTPAndIssueResetToken verifies the code and mints a reset token
func (m *MockAuthService) VerifyOTPAndIssueResetToken(ctx context.Context, email, code string) (string, error) {
	if m.VerifyOTPAndIssueResetTokenFunc != nil {
		return m.VerifyOTPAndIssueResetTokenFunc(ctx, email, code)
	}
	return "mock-reset-token", nil
}

// ResetPassword finishes the reset flow
func (m *MockAuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, resetToken, newPassword)
	}
	return nil
}

// RequestEmailVerification starts the verification flow
func (m *MockAuthService) RequestEmailVerification(ctx context.Context, email string) error {
	if m.RequestEmailVerificationFunc != nil {
		return m.RequestEmailVerificationFunc(ctx, email)
	}
	return nil
}

// VerifyEmail finishes the verification flow
func (m *MockAuthService) VerifyEmail(ctx context.Context, email, code string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, email, code)
	}
	return nil
}

// GetUserProfile loads a user by ID
func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
