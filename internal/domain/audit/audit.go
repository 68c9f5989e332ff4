package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionStatusChange  Action = "status_change"
	ActionVerifyPayment Action = "verify_payment"
	ActionGenerate      Action = "generate"
	ActionDownload      Action = "download"
	ActionLogin         Action = "login"
)

// Entry records an operator- or patient-driven mutation for later review.
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	ActorID   *uuid.UUID `gorm:"column:actor_id;type:uuid;index"`
	ActorType string     `gorm:"column:actor_type;type:varchar(20);not null"`
	IPAddress string     `gorm:"column:ip_address;type:varchar(45)"`

	Action       Action `gorm:"column:action;type:varchar(30);not null;index"`
	ResourceType string `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string `gorm:"column:resource_id;type:varchar(50);index"`

	Detail string `gorm:"column:detail;type:text"`
}

func (Entry) TableName() string {
	return "portal.audit_entries"
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error
}
