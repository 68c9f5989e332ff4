package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/labpoint/labportal/pkg/mailer"
	"go.uber.org/zap"
)

// OtpService issues and verifies single-use numeric codes. Codes are
// delivered by email best-effort: a failed send is logged together with the
// code so support can relay it, and the issuing request still succeeds.
type OtpService struct {
	repo identity.OtpRepository
	mail mailer.Sender
	log  *zap.Logger
}

func NewOtpService(repo identity.OtpRepository, mail mailer.Sender, log *zap.Logger) *OtpService {
	return &OtpService{repo: repo, mail: mail, log: log}
}

func (s *OtpService) Issue(ctx context.Context, contact string, purpose identity.OtpPurpose) error {
	if contact == "" {
		return &ValidationError{Fields: []string{"contact is required"}}
	}
	if !purpose.IsValid() {
		return &ValidationError{Fields: []string{"unknown otp purpose"}}
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generating otp code: %w", err)
	}

	o := &identity.Otp{
		Contact:   contact,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: time.Now().Add(purpose.TTL()),
	}

	if err := s.repo.Replace(ctx, o); err != nil {
		return fmt.Errorf("storing otp: %w", err)
	}

	subject, body := otpMessage(purpose, code)
	if err := s.mail.Send(ctx, contact, subject, body); err != nil {
		s.log.Warn("otp email delivery failed, code logged for support relay",
			zap.String("contact", contact),
			zap.String("purpose", string(purpose)),
			zap.String("code", code),
			zap.Error(err),
		)
	}

	return nil
}

// Verify consumes the live code for (contact, purpose). The row is deleted
// on success, on expiry, and once the attempt limit is reached, so a code
// can never be retried past its lifecycle.
func (s *OtpService) Verify(ctx context.Context, contact string, purpose identity.OtpPurpose, code string) error {
	o, err := s.repo.Get(ctx, contact, purpose)
	if err != nil {
		return err
	}

	if o.Expired(time.Now()) {
		_ = s.repo.Delete(ctx, o.ID)
		return identity.ErrOtpExpired
	}

	if o.Code != code {
		if err := s.repo.IncrementAttempts(ctx, o.ID); err != nil {
			return fmt.Errorf("recording failed attempt: %w", err)
		}
		if o.Attempts+1 >= identity.MaxOtpAttempts {
			if err := s.repo.Delete(ctx, o.ID); err != nil {
				return fmt.Errorf("discarding otp: %w", err)
			}
			return identity.ErrOtpAttemptsExceeded
		}
		return identity.ErrOtpInvalid
	}

	if err := s.repo.Delete(ctx, o.ID); err != nil {
		return fmt.Errorf("consuming otp: %w", err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func otpMessage(purpose identity.OtpPurpose, code string) (subject, body string) {
	switch purpose {
	case identity.PurposePasswordReset:
		subject = "Your password reset code"
	default:
		subject = "Your verification code"
	}
	body = fmt.Sprintf("Your one-time code is %s. It expires in %d minutes.",
		code, int(purpose.TTL().Minutes()))
	return subject, body
}
