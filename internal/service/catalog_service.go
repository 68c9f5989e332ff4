package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/audit"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"go.uber.org/zap"
)

type CatalogService struct {
	repo     catalog.Repository
	auditSvc *AuditService
	log      *zap.Logger
}

func NewCatalogService(repo catalog.Repository, auditSvc *AuditService, log *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, auditSvc: auditSvc, log: log}
}

func (s *CatalogService) CreateTest(ctx context.Context, cmd *catalog.CreateTestCommand, adminID uuid.UUID, ip string) (*catalog.Test, error) {
	var fields []string
	if strings.TrimSpace(cmd.Code) == "" {
		fields = append(fields, "code is required")
	}
	if strings.TrimSpace(cmd.Name) == "" {
		fields = append(fields, "name is required")
	}
	if cmd.Price < 0 {
		fields = append(fields, "price must not be negative")
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	t := &catalog.Test{
		Code:        strings.ToUpper(strings.TrimSpace(cmd.Code)),
		Name:        strings.TrimSpace(cmd.Name),
		Category:    cmd.Category,
		Price:       cmd.Price,
		Duration:    cmd.Duration,
		Description: cmd.Description,
		Parameters:  cmd.Parameters,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(&adminID, "admin", audit.ActionCreate,
		"test", t.ID.String(), ip, "")

	return t, nil
}

func (s *CatalogService) UpdateTest(ctx context.Context, id uuid.UUID, cmd *catalog.UpdateTestCommand, adminID uuid.UUID, ip string) (*catalog.Test, error) {
	t, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAsync(&adminID, "admin", audit.ActionUpdate,
		"test", t.ID.String(), ip, "")

	return t, nil
}

func (s *CatalogService) DeleteTest(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *CatalogService) GetTest(ctx context.Context, id uuid.UUID) (*catalog.Test, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogService) ListTests(ctx context.Context, category string) ([]*catalog.Test, error) {
	return s.repo.List(ctx, category)
}

// Seed inserts the default panel when the catalog is empty. Idempotent.
func (s *CatalogService) Seed(ctx context.Context) error {
	n, err := s.repo.CountAll(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	for _, t := range defaultCatalog() {
		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}
	}

	s.log.Info("seeded default catalog", zap.Int("tests", len(defaultCatalog())))
	return nil
}

func defaultCatalog() []*catalog.Test {
	return []*catalog.Test{
		{
			Code: "CBC", Name: "Complete Blood Count", Category: "Hematology",
			Price: 350, Duration: "6 hours",
			Parameters: []catalog.ParameterDef{
				{Name: "Hemoglobin", Unit: "g/dL", NormalRange: "13-17", ShortCode: "HGB"},
				{Name: "WBC Count", Unit: "10^3/uL", NormalRange: "4-11", ShortCode: "WBC"},
				{Name: "Platelet Count", Unit: "10^3/uL", NormalRange: "150-450", ShortCode: "PLT"},
			},
		},
		{
			Code: "FBS", Name: "Fasting Blood Sugar", Category: "Biochemistry",
			Price: 150, Duration: "4 hours",
			Parameters: []catalog.ParameterDef{
				{Name: "Glucose (Fasting)", Unit: "mg/dL", NormalRange: "70-100", ShortCode: "GLU-F"},
			},
		},
		{
			Code: "LIPID", Name: "Lipid Profile", Category: "Biochemistry",
			Price: 700, Duration: "8 hours",
			Parameters: []catalog.ParameterDef{
				{Name: "Total Cholesterol", Unit: "mg/dL", NormalRange: "<200", ShortCode: "CHOL"},
				{Name: "Triglycerides", Unit: "mg/dL", NormalRange: "<150", ShortCode: "TRIG"},
				{Name: "HDL Cholesterol", Unit: "mg/dL", NormalRange: ">40", ShortCode: "HDL"},
			},
		},
		{
			Code: "TSH", Name: "Thyroid Stimulating Hormone", Category: "Endocrinology",
			Price: 400, Duration: "12 hours",
			Parameters: []catalog.ParameterDef{
				{Name: "TSH", Unit: "uIU/mL", NormalRange: "0.4-4.0", ShortCode: "TSH"},
			},
		},
	}
}
