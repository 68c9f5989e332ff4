package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogService(repo *fakeCatalogRepo) *CatalogService {
	return NewCatalogService(repo, newTestAuditService(), zap.NewNop())
}

func TestCreateTest(t *testing.T) {
	svc := newCatalogService(newFakeCatalogRepo())

	created, err := svc.CreateTest(context.Background(), &catalog.CreateTestCommand{
		Code:     " hba1c ",
		Name:     "Glycated Hemoglobin",
		Category: "Biochemistry",
		Price:    550,
		Parameters: []catalog.ParameterDef{
			{Name: "HbA1c", Unit: "%", NormalRange: "<5.7", ShortCode: "A1C"},
		},
	}, uuid.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "HBA1C", created.Code, "code is upper-cased")
	assert.NotEqual(t, uuid.Nil, created.ID)
}

func TestCreateTestValidation(t *testing.T) {
	svc := newCatalogService(newFakeCatalogRepo())

	_, err := svc.CreateTest(context.Background(), &catalog.CreateTestCommand{Price: -5}, uuid.New(), "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 3)
}

func TestCreateTestDuplicateCode(t *testing.T) {
	svc := newCatalogService(newFakeCatalogRepo(&catalog.Test{Code: "CBC", Name: "Complete Blood Count"}))

	_, err := svc.CreateTest(context.Background(), &catalog.CreateTestCommand{
		Code: "cbc", Name: "Another CBC", Price: 300,
	}, uuid.New(), "")
	require.ErrorIs(t, err, catalog.ErrTestCodeTaken)
}

func TestSeedIdempotent(t *testing.T) {
	repo := newFakeCatalogRepo()
	svc := newCatalogService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))
	n, err := repo.CountAll(ctx)
	require.NoError(t, err)
	require.Positive(t, n)

	require.NoError(t, svc.Seed(ctx))
	again, err := repo.CountAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, again, "second seed must not duplicate rows")

	cbc, err := repo.GetByCode(ctx, "CBC")
	require.NoError(t, err)
	assert.NotEmpty(t, cbc.Parameters)
}

func TestSeedSkipsPopulatedCatalog(t *testing.T) {
	repo := newFakeCatalogRepo(&catalog.Test{Code: "XRAY", Name: "Chest X-Ray"})
	svc := newCatalogService(repo)

	require.NoError(t, svc.Seed(context.Background()))
	n, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
