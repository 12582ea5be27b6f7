package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinnacle_metals/internal/domain/model"
	"pinnacle_metals/internal/platform/config"
)

func TestNewSender_FallsBackToLogSender(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := NewSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, logger)
	require.IsType(t, &LogSender{}, s)

	err := s.Send(context.Background(), model.MailMessage{To: "a@x.com", Subject: "hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "skipping email send")
	assert.Contains(t, buf.String(), "a@x.com")
}

func TestLogSender_DoesNotLogBody(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	msg, err := Templates{ClientOrigin: "https://app.test", ResetExpiry: "1 hour"}.PasswordReset("a@x.com", "live-reset-token")
	require.NoError(t, err)
	require.NoError(t, NewLogSender(logger).Send(context.Background(), msg))

	assert.Contains(t, buf.String(), msg.Subject)
	assert.NotContains(t, buf.String(), "live-reset-token")
}

func TestNewSender_UsesSMTPWhenConfigured(t *testing.T) {
	s := NewSender(config.SMTPConfig{Host: "smtp.example.com", Port: 465, SSL: true, User: "u", Password: "p"}, slog.Default())
	smtp, ok := s.(*SMTPSender)
	require.True(t, ok)
	assert.True(t, smtp.dialer.SSL)
}

func TestSMTPSender_HonoursCancelledContext(t *testing.T) {
	s := NewSMTPSender(config.SMTPConfig{Host: "127.0.0.1", Port: 1, User: "u", Password: "p"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Send(ctx, model.MailMessage{To: "a@x.com"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTemplates(t *testing.T) {
	tpl := Templates{ClientOrigin: "https://app.example.com", ResetExpiry: "1 hour"}

	reset, err := tpl.PasswordReset("a@x.com", "abc123")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", reset.To)
	assert.Contains(t, reset.HTML, `href="https://app.example.com/reset-password?token=abc123"`)
	assert.Contains(t, reset.HTML, "expire in 1 hour")

	verify, err := tpl.EmailVerification("a@x.com", "def456")
	require.NoError(t, err)
	assert.Contains(t, verify.HTML, "https://app.example.com/verify-email?token=def456")
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "1 hour", Humanize(time.Hour))
	assert.Equal(t, "24 hours", Humanize(24*time.Hour))
	assert.Equal(t, "90 minutes", Humanize(90*time.Minute))
	assert.Equal(t, "1 minute", Humanize(time.Minute))
}
