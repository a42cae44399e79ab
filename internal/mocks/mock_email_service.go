package mocks

import (
	"sync"
	"time"

	"github.com/you/eduauthsvc/domain"
)

// SentEmail records one Send call
type SentEmail struct {
	RecipientName  string
	RecipientEmail string
	Subject        string
	HTMLBody       string
}

// MockEmailService implements domain.EmailService interface for testing.
// Sent messages are recorded for assertions.
type MockEmailService struct {
	SendFunc func(recipientName, recipientEmail, subject, htmlBody string) error

	mu   sync.Mutex
	Sent []SentEmail
}

// NewMockEmailService creates a new MockEmailService with default behaviors
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// Send records the message and succeeds
func (m *MockEmailService) Send(recipientName, recipientEmail, subject, htmlBody string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, SentEmail{
		RecipientName:  recipientName,
		RecipientEmail: recipientEmail,
		Subject:        subject,
		HTMLBody:       htmlBody,
	})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(recipientName, recipientEmail, subject, htmlBody)
	}
	return nil
}

// Compile-time interface compliance verification
var _ domain.EmailService = (*MockEmailService)(nil)

// MockTemplateBuilder implements domain.EmailTemplateBuilder interface for testing
type MockTemplateBuilder struct {
	PasswordResetFunc     func(recipientName, code string, validFor time.Duration) (string, error)
	EmailVerificationFunc func(recipientName, code string, validFor time.Duration) (string, error)
}

// NewMockTemplateBuilder creates a new MockTemplateBuilder with default behaviors
func NewMockTemplateBuilder() *MockTemplateBuilder {
	return &MockTemplateBuilder{}
}

// PasswordReset renders a trivial reset body
func (m *MockTemplateBuilder) PasswordReset(recipientName, code string, validFor time.Duration) (string, error) {
	if m.PasswordResetFunc != nil {
		return m.PasswordResetFunc(recipientName, code, validFor)
	}
	return "reset:" + code, nil
}

// EmailVerification renders a trivial verification body
func (m *MockTemplateBuilder) EmailVerification(recipientName, code string, validFor time.Duration) (string, error) {
	if m.EmailVerificationFunc != nil {
		return m.EmailVerificationFunc(recipientName, code, validFor)
	}
	return "verify:" + code, nil
}

// Compile-time interface compliance verification
var _ domain.EmailTemplateBuilder = (*MockTemplateBuilder)(nil)
