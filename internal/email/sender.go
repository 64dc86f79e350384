package email

import (
	"fmt"

	"excelytics_backend/internal/config"
	"excelytics_backend/internal/logger"

	"gopkg.in/gomail.v2"
)

// Sender отправляет служебные письма
type Sender interface {
	SendWelcome(to, name string) error
}

// NewSender выбирает реализацию по конфигу:
// без SMTP-хоста письма просто логируются.
func NewSender(cfg *config.Config) Sender {
	if cfg.Email.SMTPHost == "" {
		return &noopSender{}
	}
	return &smtpSender{cfg: cfg}
}

type smtpSender struct {
	cfg *config.Config
}

func (s *smtpSender) SendWelcome(to, name string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.Email.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to Excel Analytics")
	m.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Your account is ready. Upload a spreadsheet to build your first chart.</p>",
		name,
	))

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUser,
		s.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}

type noopSender struct{}

func (n *noopSender) SendWelcome(to, name string) error {
	logger.Debug("email sending disabled, welcome mail skipped", "to", to)
	return nil
}
