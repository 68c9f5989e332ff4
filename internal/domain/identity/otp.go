package identity

import (
	"time"

	"github.com/google/uuid"
)

type OtpPurpose string

const (
	PurposeRegister          OtpPurpose = "register"
	PurposeEmailVerification OtpPurpose = "email_verification"
	PurposePasswordReset     OtpPurpose = "password_reset"
)

func (p OtpPurpose) IsValid() bool {
	switch p {
	case PurposeRegister, PurposeEmailVerification, PurposePasswordReset:
		return true
	}
	return false
}

// TTL returns the validity window for a code issued for this purpose.
func (p OtpPurpose) TTL() time.Duration {
	if p == PurposePasswordReset {
		return 10 * time.Minute
	}
	return 5 * time.Minute
}

// MaxOtpAttempts is the number of wrong codes tolerated before the
// verification request is discarded.
const MaxOtpAttempts = 3

// Otp is a single-use code tied to (contact, purpose). At most one live row
// exists per pair: issuance replaces any previous one.
type Otp struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Contact   string     `gorm:"column:contact;type:varchar(255);not null;index:idx_otps_contact_purpose,unique"`
	Purpose   OtpPurpose `gorm:"column:purpose;type:varchar(30);not null;index:idx_otps_contact_purpose,unique"`
	Code      string     `gorm:"column:code;type:varchar(10);not null"`
	Attempts  int        `gorm:"column:attempts;default:0"`
	ExpiresAt time.Time  `gorm:"column:expires_at;not null"`
}

func (Otp) TableName() string {
	return "portal.otps"
}

func (o *Otp) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
