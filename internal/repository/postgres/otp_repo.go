package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/identity"
	"gorm.io/gorm"
)

type OtpRepo struct {
	db *gorm.DB
}

func NewOtpRepo(db *gorm.DB) *OtpRepo {
	return &OtpRepo{db: db}
}

// Replace keeps at most one live code per (contact, purpose): the verify
// path looks up "the" code for a contact, so stale ones must not accumulate.
func (r *OtpRepo) Replace(ctx context.Context, o *identity.Otp) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact = ? AND purpose = ?", o.Contact, o.Purpose).
			Delete(&identity.Otp{}).Error; err != nil {
			return fmt.Errorf("deleting prior otp: %w", err)
		}
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("inserting otp: %w", err)
		}
		return nil
	})
}

func (r *OtpRepo) Get(ctx context.Context, contact string, purpose identity.OtpPurpose) (*identity.Otp, error) {
	var o identity.Otp
	err := r.db.WithContext(ctx).
		First(&o, "contact = ? AND purpose = ?", contact, purpose).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrOtpNotFound
		}
		return nil, fmt.Errorf("querying otp: %w", err)
	}
	return &o, nil
}

func (r *OtpRepo) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&identity.Otp{}).
		Where("id = ?", id).
		UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error
	if err != nil {
		return fmt.Errorf("incrementing otp attempts: %w", err)
	}
	return nil
}

func (r *OtpRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&identity.Otp{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting otp: %w", err)
	}
	return nil
}
