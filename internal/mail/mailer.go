package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"estatehub/internal/config"
)

// Mailer dispatches plain-text mail. Services depend on this interface so
// tests can swap the SMTP transport out.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer from SMTP configuration.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
	}
}

// Send delivers a single plain-text message.
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
