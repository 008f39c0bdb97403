// Package mail is the outbound email sink. Delivery failures are returned to
// the caller, never swallowed.
package mail

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Sender dispatches a single message to one recipient.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	addr string
	from string
}

// NewSMTPSender returns a Sender backed by a plain SMTP relay.
func NewSMTPSender(addr, from string) Sender {
	return &smtpSender{addr: addr, from: from}
}

func (s *smtpSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

type logSender struct {
	logger *slog.Logger
}

// NewLogSender logs messages instead of delivering them. Used in development
// so signup works without an SMTP relay.
func NewLogSender(logger *slog.Logger) Sender {
	return &logSender{logger: logger}
}

func (s *logSender) Send(to, subject, body string) error {
	s.logger.Info("mail dispatched", "to", to, "subject", subject, "body", body)
	return nil
}
