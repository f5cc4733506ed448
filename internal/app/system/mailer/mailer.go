// internal/app/system/mailer/mailer.go

// Package mailer delivers the out-of-band credentials (one-time codes and
// magic links) over SMTP. Delivery failure is a dependency failure: it
// surfaces as a 500 and the caller re-requests, nothing is retried here.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
}

// Sender delivers email. It is an interface so tests and the login handler
// can substitute a recorder.
type Sender interface {
	Send(e Email) error
}

// SMTPMailer sends via a plain SMTP relay (Mailpit in dev, SES or similar
// in production).
type SMTPMailer struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	FromName string
	Log      *zap.Logger
}

// New creates an SMTPMailer.
func New(host string, port int, user, pass, from, fromName string, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		Host:     host,
		Port:     port,
		User:     user,
		Pass:     pass,
		From:     from,
		FromName: fromName,
		Log:      logger,
	}
}

// Send delivers one message.
func (m *SMTPMailer) Send(e Email) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.FromName, m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", e.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", e.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(e.TextBody)

	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}

	if err := smtp.SendMail(addr, auth, m.From, []string{e.To}, []byte(msg.String())); err != nil {
		m.Log.Error("send mail failed", zap.String("to", e.To), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
