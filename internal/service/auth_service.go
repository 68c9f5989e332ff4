package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labpoint/labportal/internal/domain/identity"
	"github.com/labpoint/labportal/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type TokenResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Always "Bearer"
}

type AuthService struct {
	patients   identity.PatientRepository
	admins     identity.AdminRepository
	otp        *OtpService
	external   identity.ExternalTokenVerifier
	jwtManager *auth.JWTManager
	log        *zap.Logger
}

func NewAuthService(
	patients identity.PatientRepository,
	admins identity.AdminRepository,
	otp *OtpService,
	external identity.ExternalTokenVerifier,
	jwtManager *auth.JWTManager,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		patients:   patients,
		admins:     admins,
		otp:        otp,
		external:   external,
		jwtManager: jwtManager,
		log:        log,
	}
}

// RegisterEmail creates an unverified patient and sends the verification
// code. The account cannot log in until the address is verified.
func (s *AuthService) RegisterEmail(ctx context.Context, cmd *identity.RegisterPatientCommand) (*identity.Patient, error) {
	var fields []string
	if strings.TrimSpace(cmd.Name) == "" {
		fields = append(fields, "name is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		fields = append(fields, "email is required")
	}
	if strings.TrimSpace(cmd.Phone) == "" {
		fields = append(fields, "phone is required")
	}
	if len(cmd.Password) < 8 {
		fields = append(fields, "password must be at least 8 characters")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if _, err := s.patients.GetByEmail(ctx, email); err == nil {
		return nil, identity.ErrEmailTaken
	} else if !errors.Is(err, identity.ErrPatientNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	p := &identity.Patient{
		PatientNo:    identity.NewPatientNo(),
		Name:         strings.TrimSpace(cmd.Name),
		Email:        &email,
		Phone:        strings.TrimSpace(cmd.Phone),
		PasswordHash: string(hash),
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.otp.Issue(ctx, email, identity.PurposeEmailVerification); err != nil {
		s.log.Error("failed to issue verification code after registration",
			zap.String("email", email), zap.Error(err))
	}

	s.log.Info("patient registered",
		zap.String("patient_id", p.ID.String()),
		zap.String("patient_no", p.PatientNo),
	)

	return p, nil
}

// LoginEmail authenticates a patient by email and password.
func (s *AuthService) LoginEmail(ctx context.Context, email, password string) (*TokenResult, *identity.Patient, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		// Dummy hash keeps response time flat whether or not the email exists.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, nil, ErrInvalidCredentials
	}

	if !p.HasPassword() {
		return nil, nil, ErrNoPasswordSet
	}

	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt", zap.String("email", email))
		return nil, nil, ErrInvalidCredentials
	}

	if !p.EmailVerified {
		return nil, nil, &EmailNotVerifiedError{Contact: email}
	}

	token, err := s.issueToken(p)
	if err != nil {
		return nil, nil, err
	}
	return token, p, nil
}

// VerifyEmail consumes the emailed code and flips the verified flag.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.otp.Verify(ctx, email, identity.PurposeEmailVerification, code); err != nil {
		return err
	}

	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	p.EmailVerified = true
	if err := s.patients.Save(ctx, p); err != nil {
		return err
	}

	s.log.Info("email verified", zap.String("patient_id", p.ID.String()))
	return nil
}

// ResendVerification issues a fresh code for an unverified address.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if p.EmailVerified {
		return &ValidationError{Fields: []string{"email is already verified"}}
	}

	return s.otp.Issue(ctx, email, identity.PurposeEmailVerification)
}

// ForgotPassword issues a reset code. An unknown address gets the same
// success response to avoid account enumeration; only known addresses get
// a code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.patients.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, identity.ErrPatientNotFound) {
			return nil
		}
		return err
	}

	return s.otp.Issue(ctx, email, identity.PurposePasswordReset)
}

// ResetPassword consumes the reset code and installs the new password.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(newPassword) < 8 {
		return &ValidationError{Fields: []string{"password must be at least 8 characters"}}
	}

	if err := s.otp.Verify(ctx, email, identity.PurposePasswordReset, code); err != nil {
		return err
	}

	p, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	p.PasswordHash = string(hash)
	if err := s.patients.Save(ctx, p); err != nil {
		return err
	}

	s.log.Info("password reset", zap.String("patient_id", p.ID.String()))
	return nil
}

// LoginExternal exchanges a provider identity token for a portal session,
// linking or creating the patient record keyed on the provider uid.
func (s *AuthService) LoginExternal(ctx context.Context, idToken string) (*TokenResult, *identity.Patient, error) {
	ext, err := s.external.VerifyExternalToken(ctx, idToken)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	p, err := s.patients.GetByExternalUID(ctx, ext.UID)
	switch {
	case err == nil:
		// existing linked account

	case errors.Is(err, identity.ErrPatientNotFound):
		p, err = s.linkOrCreateExternal(ctx, ext)
		if err != nil {
			return nil, nil, err
		}

	default:
		return nil, nil, err
	}

	token, err := s.issueToken(p)
	if err != nil {
		return nil, nil, err
	}
	return token, p, nil
}

// linkOrCreateExternal attaches the provider uid to an existing patient with
// the same phone, or registers a new one.
func (s *AuthService) linkOrCreateExternal(ctx context.Context, ext *identity.ExternalIdentity) (*identity.Patient, error) {
	p, err := s.patients.GetByPhone(ctx, ext.Phone)
	if err == nil {
		p.ExternalAuthUID = &ext.UID
		if err := s.patients.Save(ctx, p); err != nil {
			return nil, err
		}
		s.log.Info("linked external identity to existing patient",
			zap.String("patient_id", p.ID.String()))
		return p, nil
	}
	if !errors.Is(err, identity.ErrPatientNotFound) {
		return nil, err
	}

	p = &identity.Patient{
		PatientNo:       identity.NewPatientNo(),
		Name:            ext.Phone,
		Phone:           ext.Phone,
		ExternalAuthUID: &ext.UID,
	}
	if ext.Email != "" {
		email := strings.ToLower(ext.Email)
		p.Email = &email
	}

	if err := s.patients.Create(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info("patient created from external identity",
		zap.String("patient_id", p.ID.String()))
	return p, nil
}

// LoginAdmin authenticates an operator account.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*TokenResult, *identity.Admin, error) {
	a, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed admin login attempt", zap.String("username", username))
		return nil, nil, ErrInvalidCredentials
	}

	signed, expiresAt, err := s.jwtManager.Generate(a.ID, auth.ActorAdmin)
	if err != nil {
		return nil, nil, fmt.Errorf("generating token: %w", err)
	}

	return &TokenResult{Token: signed, ExpiresAt: expiresAt, TokenType: "Bearer"}, a, nil
}

func (s *AuthService) issueToken(p *identity.Patient) (*TokenResult, error) {
	signed, expiresAt, err := s.jwtManager.Generate(p.ID, auth.ActorPatient)
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}
	return &TokenResult{Token: signed, ExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}
