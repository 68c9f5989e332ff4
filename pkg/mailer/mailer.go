package mailer

import (
	"context"
	"time"

	"github.com/labpoint/labportal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. Implementations are best-effort:
// callers treat a failure as non-fatal.
type Sender interface {
	Send(ctx context.Context, to, subject, textBody string) error
}

type Mailer struct {
	cfg config.SMTPConfig
	log *zap.Logger
}

func New(cfg config.SMTPConfig, log *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// Send dials SMTP and delivers the message. When the sink is disabled the
// body is logged instead, which keeps OTP flows usable in development.
func (m *Mailer) Send(ctx context.Context, to, subject, textBody string) error {
	if !m.cfg.Enabled {
		m.log.Info("mail sink disabled, logging message instead",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.String("body", textBody),
		)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	wait := 10 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until > 0 && until < wait {
			wait = until
		}
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}
