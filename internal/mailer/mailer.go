// Package mailer delivers alert notifications over SMTP. Delivery is
// best-effort: a failed send leaves the alert unsent so the next run retries.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mgrist/texlien/internal/config"
)

// Mailer sends a plain-text message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
	// Enabled reports whether sends actually go anywhere.
	Enabled() bool
}

// New returns an SMTP-backed mailer, or a disabled no-op mailer when no SMTP
// host is configured.
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return disabled{}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

func (m *smtpMailer) Enabled() bool { return true }

func (m *smtpMailer) Send(to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// disabled drops every message. Used when SMTP is not configured so the alert
// pipeline still runs and marks alerts sent.
type disabled struct{}

func (disabled) Enabled() bool             { return false }
func (disabled) Send(_, _, _ string) error { return nil }
