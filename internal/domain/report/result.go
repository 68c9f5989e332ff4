package report

import (
	"time"

	"github.com/google/uuid"
)

// ParameterResult is one measured value. IsAbnormal is advisory, computed
// against the normal-range expression at entry time and stored as supplied.
type ParameterResult struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	NormalRange string `json:"normal_range"`
	IsAbnormal  bool   `json:"is_abnormal"`
}

// Result is the raw recorded measurement set for one patient/test pair.
// Rows are append-only: corrections are issued as new results.
type Result struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index"`
	TestID    uuid.UUID `gorm:"column:test_id;type:uuid;not null;index"`

	Parameters  []ParameterResult `gorm:"column:parameters;serializer:json;not null"`
	Technician  string            `gorm:"column:technician;type:varchar(200);not null"`
	ReferredBy  string            `gorm:"column:referred_by;type:varchar(200)"`
	CollectedAt time.Time         `gorm:"column:collected_at;not null"`
}

func (Result) TableName() string {
	return "portal.results"
}

type GenerateReportCommand struct {
	PatientID  uuid.UUID
	TestID     uuid.UUID
	Technician string
	ReferredBy string

	// BookingID links the report to a booking for payment gating. It is
	// never inferred: callers that have one must pass it explicitly.
	BookingID *uuid.UUID

	CollectedAt time.Time
	Parameters  []ParameterResult
}
