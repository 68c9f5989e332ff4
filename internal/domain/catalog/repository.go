package catalog

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new test. Returns ErrTestCodeTaken on duplicate code.
	Create(ctx context.Context, t *Test) error

	GetByID(ctx context.Context, id uuid.UUID) (*Test, error)
	GetByCode(ctx context.Context, code string) (*Test, error)

	Update(ctx context.Context, id uuid.UUID, cmd *UpdateTestCommand) (*Test, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all tests, optionally filtered by category.
	List(ctx context.Context, category string) ([]*Test, error)

	// CountByIDs returns how many of the given ids exist. Used by the booking
	// service for referential validation of the requested test set.
	CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)

	CountAll(ctx context.Context) (int64, error)
}
