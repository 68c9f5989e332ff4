package report

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreateResult persists a new result row. Results are append-only.
	CreateResult(ctx context.Context, r *Result) error

	GetResult(ctx context.Context, id uuid.UUID) (*Result, error)

	// CreateReport persists a new report row with its secure token.
	CreateReport(ctx context.Context, r *Report) error

	GetReport(ctx context.Context, id uuid.UUID) (*Report, error)

	// GetReportByToken resolves the download capability. Returns
	// ErrReportNotFound for unknown tokens.
	GetReportByToken(ctx context.Context, token string) (*Report, error)

	// ListByPatient returns a patient's reports, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Report, error)
}
