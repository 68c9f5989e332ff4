package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/booking"
	"gorm.io/gorm"
)

type BookingRepo struct {
	db *gorm.DB
}

func NewBookingRepo(db *gorm.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b *booking.Booking) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("inserting booking: %w", err)
	}
	return nil
}

func (r *BookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	var b booking.Booking
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, fmt.Errorf("querying booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepo) Save(ctx context.Context, b *booking.Booking) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("saving booking: %w", err)
	}
	return nil
}

func (r *BookingRepo) List(ctx context.Context, q *booking.ListBookingsQuery) (*booking.PagedBookings, error) {
	base := r.db.WithContext(ctx).Model(&booking.Booking{})
	if q.Status != nil {
		base = base.Where("status = ?", *q.Status)
	}
	if q.PaymentStatus != nil {
		base = base.Where("payment_status = ?", *q.PaymentStatus)
	}
	if q.Phone != "" {
		base = base.Where("phone = ?", q.Phone)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting bookings: %w", err)
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 || size > 100 {
		size = 20
	}

	var rows []*booking.Booking
	err := base.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &booking.PagedBookings{
		Bookings:   rows,
		TotalCount: total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}, nil
}

func (r *BookingRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*booking.Booking, error) {
	var rows []*booking.Booking
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing patient bookings: %w", err)
	}
	return rows, nil
}
