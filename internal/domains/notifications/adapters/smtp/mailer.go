// Package smtp implements the Mailer port over plain SMTP. Delivery is a
// single attempt; retries and queuing are deliberately absent, callers treat
// a failure as terminal for that attempt.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Apurer/laundry-backoffice/internal/domains/notifications/ports"
)

var _ ports.Mailer = (*Mailer)(nil)

// Config carries SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// Mailer sends HTML mail over SMTP.
type Mailer struct {
	cfg  Config
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg Config) *Mailer {
	if cfg.From == "" {
		cfg.From = "noreply@laundry.local"
	}
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// Send delivers one message. The context is checked before dialing; net/smtp
// itself does not take a context.
func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: Laundry System <%s>\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
