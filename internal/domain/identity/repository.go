package identity

import (
	"context"

	"github.com/google/uuid"
)

type PatientRepository interface {
	// Create persists a new patient. Returns ErrEmailTaken on duplicate email.
	Create(ctx context.Context, p *Patient) error

	// GetByID retrieves a patient by primary key. Returns ErrPatientNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	GetByEmail(ctx context.Context, email string) (*Patient, error)
	GetByPhone(ctx context.Context, phone string) (*Patient, error)
	GetByExternalUID(ctx context.Context, uid string) (*Patient, error)

	// Save writes back mutations made to a loaded patient row.
	Save(ctx context.Context, p *Patient) error
}

type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	CountAll(ctx context.Context) (int64, error)
}

type OtpRepository interface {
	// Replace deletes any live code for (contact, purpose) and inserts the new one.
	Replace(ctx context.Context, o *Otp) error

	// Get returns the live code for (contact, purpose). Returns ErrOtpNotFound if absent.
	Get(ctx context.Context, contact string, purpose OtpPurpose) (*Otp, error)

	// IncrementAttempts bumps the attempt counter on a row.
	IncrementAttempts(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// ExternalTokenVerifier validates an identity token minted by the external
// phone-auth provider. Implementations live outside the core so no provider
// SDK leaks into domain or service code.
type ExternalTokenVerifier interface {
	VerifyExternalToken(ctx context.Context, token string) (*ExternalIdentity, error)
}
