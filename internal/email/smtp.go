// Package email delivers operational notification emails over SMTP.
package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"campaign_tracking_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers a plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NewSender builds a sender from configuration. When email is disabled a
// no-op sender is returned so callers never need to branch.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return noopSender{}
	}
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

type noopSender struct{}

func (noopSender) Send(context.Context, string, string, string) error { return nil }

// SMTPSender delivers via a direct SMTP connection using go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}
