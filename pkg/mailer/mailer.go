// Package mailer delivers account notification mail. Delivery is either
// synchronous over SMTP or queued through RabbitMQ with a consumer draining
// the queue into the SMTP sender.
package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Job is one mail delivery request.
type Job struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// resetJob builds the password-reset mail for the given link.
func resetJob(to, link string) Job {
	return Job{
		To:      to,
		Subject: "Password Reset Request",
		Body: fmt.Sprintf(`To reset your password, visit the following link:
%s

If you did not make this request, simply ignore this email and no changes will be made.
`, link),
	}
}

// SMTPConfig holds outbound mail transport settings.
type SMTPConfig struct {
	Server   string
	Port     int
	Username string
	Password string
	Sender   string
}

// SMTPMailer sends mail directly over SMTP with STARTTLS.
type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
}

// NewSMTPMailer creates an SMTPMailer from transport settings.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password),
		sender: cfg.Sender,
	}
}

// Deliver sends a single mail job.
func (m *SMTPMailer) Deliver(job Job) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", job.To)
	msg.SetHeader("Subject", job.Subject)
	msg.SetBody("text/plain", job.Body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", job.To, err)
	}
	return nil
}

// SendPasswordReset mails the reset link to the given address.
func (m *SMTPMailer) SendPasswordReset(to, link string) error {
	return m.Deliver(resetJob(to, link))
}
