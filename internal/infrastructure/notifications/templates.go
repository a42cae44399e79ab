package notifications

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/you/eduauthsvc/domain"
)

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset</h2>
  <p>Hi {{.Name}},</p>
  <p>We received a request to reset your password. Enter this code to continue:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
  <p>The code is valid for {{.Minutes}} minutes and can be used once.</p>
  <p>If you did not request a reset, you can ignore this email.</p>
</body>
</html>`

const emailVerificationTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Verify your email</h2>
  <p>Hi {{.Name}},</p>
  <p>Enter this code to verify your email address:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
  <p>The code is valid for {{.Minutes}} minutes and can be used once.</p>
</body>
</html>`

// TemplateBuilder implements domain.EmailTemplateBuilder with parsed
// html/template documents.
type TemplateBuilder struct {
	reset  *template.Template
	verify *template.Template
}

type templateData struct {
	Name    string
	Code    string
	Minutes int
}

// NewTemplateBuilder creates the builder, parsing all templates up front
func NewTemplateBuilder() (domain.EmailTemplateBuilder, error) {
	reset, err := template.New("password_reset").Parse(passwordResetTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse password reset template: %w", err)
	}
	verify, err := template.New("email_verification").Parse(emailVerificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email verification template: %w", err)
	}
	return &TemplateBuilder{reset: reset, verify: verify}, nil
}

// PasswordReset implements domain.EmailTemplateBuilder
func (b *TemplateBuilder) PasswordReset(recipientName, code string, validFor time.Duration) (string, error) {
	return render(b.reset, recipientName, code, validFor)
}

// EmailVerification implements domain.EmailTemplateBuilder
func (b *TemplateBuilder) EmailVerification(recipientName, code string, validFor time.Duration) (string, error) {
	return render(b.verify, recipientName, code, validFor)
}

func render(t *template.Template, name, code string, validFor time.Duration) (string, error) {
	var buf bytes.Buffer
	err := t.Execute(&buf, templateData{
		Name:    name,
		Code:    code,
		Minutes: int(validFor.Minutes()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
