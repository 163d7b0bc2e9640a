package services

import (
	"gopkg.in/gomail.v2"
)

// Mailer sends notification mail. Delivery is best-effort at every call
// site: a failed send is logged by the caller and never rolls back the
// operation that triggered it.
type Mailer interface {
	Send(to []string, subject, body string) error
}

// SMTPMailer delivers mail over an authenticated SMTP connection.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a mailer for the given SMTP endpoint.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a plain-text message to the given recipients.
func (m *SMTPMailer) Send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}
