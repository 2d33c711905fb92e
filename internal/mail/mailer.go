package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/AnhKhoa14/bakery/internal/config"
)

// Mailer is the outbound email collaborator. Implementations must be safe for
// concurrent use; delivery failures are the caller's to log, never fatal.
type Mailer interface {
	SendVerificationCode(to, name, code string) error
	SendPasswordReset(to, name, token string) error
}

// New returns an SMTP mailer when mail is configured, otherwise a no-op.
func New(cfg config.MailConfig) Mailer {
	if !cfg.Enabled() {
		return noopMailer{}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *smtpMailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func (m *smtpMailer) SendVerificationCode(to, name, code string) error {
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your verification code is <b>%s</b>. It expires in 15 minutes.</p>",
		name, code,
	)
	return m.send(to, "Verify your account", body)
}

func (m *smtpMailer) SendPasswordReset(to, name, token string) error {
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Use this token to reset your password: <b>%s</b>. It expires in 1 hour.</p>",
		name, token,
	)
	return m.send(to, "Reset your password", body)
}

// noopMailer is used when mail is not configured; auth flows still work,
// codes just never leave the database.
type noopMailer struct{}

func (noopMailer) SendVerificationCode(string, string, string) error { return nil }
func (noopMailer) SendPasswordReset(string, string, string) error    { return nil }
