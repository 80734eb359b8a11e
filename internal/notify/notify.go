package notify

import (
	"context"
	"fmt"

	"newsteps/internal/config"

	"github.com/rs/zerolog"
	gomail "gopkg.in/gomail.v2"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Dialer is the subset of gomail.Dialer used by the SMTP sender.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// smtpSender sends mail through an SMTP server.
type smtpSender struct {
	dialer Dialer
	from   string
	logger zerolog.Logger
}

// NewSMTPSender creates a sender for the configured SMTP server.
func NewSMTPSender(cfg config.SMTPConfig, logger zerolog.Logger) Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Port == 465
	return NewSMTPSenderWithDialer(d, cfg.From, logger)
}

// NewSMTPSenderWithDialer creates a sender around an existing dialer.
func NewSMTPSenderWithDialer(dialer Dialer, from string, logger zerolog.Logger) Sender {
	return &smtpSender{
		dialer: dialer,
		from:   from,
		logger: logger.With().Str("component", "smtp-sender").Logger(),
	}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	s.logger.Debug().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// logSender records messages instead of sending them. Used when SMTP is off.
type logSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger zerolog.Logger) Sender {
	return &logSender{logger: logger.With().Str("component", "log-sender").Logger()}
}

func (s *logSender) Send(_ context.Context, to, subject, _ string) error {
	s.logger.Info().Str("to", to).Str("subject", subject).Msg("email delivery disabled, message dropped")
	return nil
}
