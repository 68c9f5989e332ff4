package report

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Report is the publishable artifact wrapping a Result. SecureToken is the
// sole capability needed to fetch the artifact, so it must be unguessable.
type Report struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	ResultID  uuid.UUID `gorm:"column:result_id;type:uuid;not null;index"`

	// BookingID is nil on legacy reports that predate the link. Such reports
	// are not payment-gated.
	BookingID *uuid.UUID `gorm:"column:booking_id;type:uuid;index"`

	FilePath    string    `gorm:"column:file_path;type:text"`
	SecureToken string    `gorm:"column:secure_token;type:varchar(128);uniqueIndex;not null"`
	GeneratedAt time.Time `gorm:"column:generated_at;not null"`
}

func (Report) TableName() string {
	return "portal.reports"
}

// NewSecureToken returns a 256-bit random token, hex encoded.
func NewSecureToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
