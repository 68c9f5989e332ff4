package booking

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error

	// GetByID retrieves a booking by primary key. Returns ErrBookingNotFound if absent.
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// Save writes back mutations made to a loaded booking row.
	Save(ctx context.Context, b *Booking) error

	List(ctx context.Context, q *ListBookingsQuery) (*PagedBookings, error)

	// ListByPatient returns all bookings owned by a patient, newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Booking, error)
}
