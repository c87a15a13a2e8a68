package mailer

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"github.com/shakytails/shakytails-backend/pkg/config"
)

// Sender delivers transactional email. Callers treat delivery as
// best-effort: failures are logged and never abort the triggering request.
type Sender interface {
	Send(msg Message) error
}

// Message is a rendered email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type dialer interface {
	DialAndSend(...*gomail.Message) error
}

// SMTPSender delivers mail over SMTP via gomail.
type SMTPSender struct {
	dialer dialer
	from   string
}

// NewSMTPSender builds a sender from mail config. Returns a NoopSender when
// mail is disabled or the SMTP host is unset, so callers never nil-check.
func NewSMTPSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled || strings.TrimSpace(cfg.Host) == "" {
		return NoopSender{}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers a single message.
func (s *SMTPSender) Send(msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending mail to %s: %w", msg.To, err)
	}
	return nil
}

// NoopSender swallows all mail. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) Send(Message) error { return nil }
