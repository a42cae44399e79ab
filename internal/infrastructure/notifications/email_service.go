package notifications

import (
	"fmt"
	"log"

	"github.com/you/eduauthsvc/domain"
	"gopkg.in/gomail.v2"
)

// SMTPEmailService implements domain.EmailService over SMTP
type SMTPEmailService struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(host string, port int, username, password, from, fromName string) domain.EmailService {
	return &SMTPEmailService{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

// Send implements domain.EmailService. The body is opaque HTML produced by
// the template builder; this layer never inspects it.
func (s *SMTPEmailService) Send(recipientName, recipientEmail, subject, htmlBody string) error {
	// If SMTP is not configured, log instead of sending
	if s.from == "" {
		log.Printf("[MOCK EMAIL] To: %s <%s>, Subject: %s", recipientName, recipientEmail, subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetAddressHeader("To", recipientEmail, recipientName)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
