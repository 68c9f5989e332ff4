package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/identity"
	"gorm.io/gorm"
)

type AdminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

func (r *AdminRepo) Create(ctx context.Context, a *identity.Admin) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("inserting admin: %w", err)
	}
	return nil
}

func (r *AdminRepo) GetByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	var a identity.Admin
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrAdminNotFound
		}
		return nil, fmt.Errorf("querying admin: %w", err)
	}
	return &a, nil
}

func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*identity.Admin, error) {
	var a identity.Admin
	if err := r.db.WithContext(ctx).First(&a, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrAdminNotFound
		}
		return nil, fmt.Errorf("querying admin by username: %w", err)
	}
	return &a, nil
}

func (r *AdminRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&identity.Admin{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return n, nil
}
