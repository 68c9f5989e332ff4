package identity

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// PatientNo is the human-readable identifier printed on reports,
	// assigned once at registration.
	PatientNo string `gorm:"column:patient_no;type:varchar(20);uniqueIndex;not null"`

	Name  string  `gorm:"column:name;type:varchar(200);not null"`
	Email *string `gorm:"column:email;type:varchar(255);uniqueIndex"`
	Phone string  `gorm:"column:phone;type:varchar(20);not null;index"`

	// PasswordHash is empty for patients who only ever signed in through
	// the external phone-auth provider.
	PasswordHash    string  `gorm:"column:password_hash;type:varchar(255)"`
	ExternalAuthUID *string `gorm:"column:external_auth_uid;type:varchar(128);uniqueIndex"`
	EmailVerified   bool    `gorm:"column:email_verified;default:false"`

	Gender      Gender     `gorm:"column:gender;type:varchar(20)"`
	DateOfBirth *time.Time `gorm:"column:date_of_birth"`
	Address     string     `gorm:"column:address;type:text"`
}

func (Patient) TableName() string {
	return "portal.patients"
}

func (p *Patient) HasPassword() bool {
	return p.PasswordHash != ""
}

// NewPatientNo mints a fresh human-readable patient identifier.
func NewPatientNo() string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "LP-" + strings.ToUpper(hex.EncodeToString(buf))
}

type RegisterPatientCommand struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type ExternalIdentity struct {
	UID   string
	Phone string
	Email string
}
