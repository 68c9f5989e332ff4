package identity

import (
	"time"

	"github.com/google/uuid"
)

type AdminRole string

const (
	AdminRoleSuper     AdminRole = "super"
	AdminRoleOperator  AdminRole = "operator"
	AdminRoleLabTech   AdminRole = "lab_tech"
	AdminRoleFrontDesk AdminRole = "front_desk"
)

func (r AdminRole) IsValid() bool {
	switch r {
	case AdminRoleSuper, AdminRoleOperator, AdminRoleLabTech, AdminRoleFrontDesk:
		return true
	}
	return false
}

// Admin accounts are created only by seed tooling, never through the API.
type Admin struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Username     string    `gorm:"column:username;type:varchar(100);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Name         string    `gorm:"column:name;type:varchar(200);not null"`
	Role         AdminRole `gorm:"column:role;type:varchar(30);not null;default:'operator'"`
}

func (Admin) TableName() string {
	return "portal.admins"
}
