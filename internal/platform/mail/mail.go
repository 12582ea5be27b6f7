package mail

import (
	"context"
	"fmt"
	"log/slog"

	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/platform/config"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg model.MailMessage) error
}

// NewSender returns an SMTP sender when credentials are configured, and a
// sender that only logs the message otherwise.
func NewSender(cfg config.SMTPConfig, logger *slog.Logger) Sender {
	if !cfg.Configured() {
		logger.Warn("SMTP credentials missing, outbound mail will be logged and skipped")
		return &LogSender{logger: logger}
	}
	return NewSMTPSender(cfg)
}

type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.SSL
	return &SMTPSender{from: cfg.From, dialer: d}
}

func (s *SMTPSender) Send(ctx context.Context, msg model.MailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the envelope only. Bodies carry live reset and verification
// links and never reach the log.
func (s *LogSender) Send(_ context.Context, msg model.MailMessage) error {
	s.logger.Info("skipping email send", "to", msg.To, "subject", msg.Subject)
	return nil
}
