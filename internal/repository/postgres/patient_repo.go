package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/identity"
	"gorm.io/gorm"
)

type PatientRepo struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

func (r *PatientRepo) Create(ctx context.Context, p *identity.Patient) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return identity.ErrEmailTaken
		}
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (r *PatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*identity.Patient, error) {
	var p identity.Patient
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrPatientNotFound
		}
		return nil, fmt.Errorf("querying patient: %w", err)
	}
	return &p, nil
}

func (r *PatientRepo) GetByEmail(ctx context.Context, email string) (*identity.Patient, error) {
	var p identity.Patient
	if err := r.db.WithContext(ctx).First(&p, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrPatientNotFound
		}
		return nil, fmt.Errorf("querying patient by email: %w", err)
	}
	return &p, nil
}

func (r *PatientRepo) GetByPhone(ctx context.Context, phone string) (*identity.Patient, error) {
	var p identity.Patient
	if err := r.db.WithContext(ctx).First(&p, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrPatientNotFound
		}
		return nil, fmt.Errorf("querying patient by phone: %w", err)
	}
	return &p, nil
}

func (r *PatientRepo) GetByExternalUID(ctx context.Context, uid string) (*identity.Patient, error) {
	var p identity.Patient
	if err := r.db.WithContext(ctx).First(&p, "external_auth_uid = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, identity.ErrPatientNotFound
		}
		return nil, fmt.Errorf("querying patient by external uid: %w", err)
	}
	return &p, nil
}

func (r *PatientRepo) Save(ctx context.Context, p *identity.Patient) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("saving patient: %w", err)
	}
	return nil
}
