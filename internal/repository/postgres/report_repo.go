package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/audit"
	"github.com/labpoint/labportal/internal/domain/report"
	"gorm.io/gorm"
)

type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

func (r *ReportRepo) CreateResult(ctx context.Context, res *report.Result) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetResult(ctx context.Context, id uuid.UUID) (*report.Result, error) {
	var res report.Result
	if err := r.db.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrResultNotFound
		}
		return nil, fmt.Errorf("querying result: %w", err)
	}
	return &res, nil
}

func (r *ReportRepo) CreateReport(ctx context.Context, rep *report.Report) error {
	if err := r.db.WithContext(ctx).Create(rep).Error; err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}
	return nil
}

func (r *ReportRepo) GetReport(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	var rep report.Report
	if err := r.db.WithContext(ctx).First(&rep, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("querying report: %w", err)
	}
	return &rep, nil
}

func (r *ReportRepo) GetReportByToken(ctx context.Context, token string) (*report.Report, error) {
	var rep report.Report
	if err := r.db.WithContext(ctx).First(&rep, "secure_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, fmt.Errorf("querying report by token: %w", err)
	}
	return &rep, nil
}

func (r *ReportRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*report.Report, error) {
	var rows []*report.Report
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing patient reports: %w", err)
	}
	return rows, nil
}

type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

func (r *AuditRepo) Create(ctx context.Context, e *audit.Entry) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}
	return nil
}
