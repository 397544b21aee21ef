package notify

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer sends a single HTML email
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay
type SMTPMailer struct {
	addr     string
	auth     smtp.Auth
	from     string
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger   *slog.Logger
}

// NewSMTPMailer creates a mailer for the given relay and sender address
func NewSMTPMailer(host string, port int, username, password, from string, logger *slog.Logger) *SMTPMailer {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPMailer{
		addr:     fmt.Sprintf("%s:%d", host, port),
		auth:     smtp.PlainAuth("", username, password, host),
		from:     from,
		sendMail: smtp.SendMail,
		logger:   logger,
	}
}

// Send delivers one HTML message
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := m.sendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}
