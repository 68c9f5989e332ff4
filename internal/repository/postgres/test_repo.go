package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/labpoint/labportal/internal/domain/catalog"
	"gorm.io/gorm"
)

type TestRepo struct {
	db *gorm.DB
}

func NewTestRepo(db *gorm.DB) *TestRepo {
	return &TestRepo{db: db}
}

func (r *TestRepo) Create(ctx context.Context, t *catalog.Test) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return catalog.ErrTestCodeTaken
		}
		return fmt.Errorf("inserting test: %w", err)
	}
	return nil
}

func (r *TestRepo) GetByID(ctx context.Context, id uuid.UUID) (*catalog.Test, error) {
	var t catalog.Test
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrTestNotFound
		}
		return nil, fmt.Errorf("querying test: %w", err)
	}
	return &t, nil
}

func (r *TestRepo) GetByCode(ctx context.Context, code string) (*catalog.Test, error) {
	var t catalog.Test
	if err := r.db.WithContext(ctx).First(&t, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrTestNotFound
		}
		return nil, fmt.Errorf("querying test by code: %w", err)
	}
	return &t, nil
}

func (r *TestRepo) Update(ctx context.Context, id uuid.UUID, cmd *catalog.UpdateTestCommand) (*catalog.Test, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		t.Name = *cmd.Name
	}
	if cmd.Category != nil {
		t.Category = *cmd.Category
	}
	if cmd.Price != nil {
		t.Price = *cmd.Price
	}
	if cmd.Duration != nil {
		t.Duration = *cmd.Duration
	}
	if cmd.Description != nil {
		t.Description = *cmd.Description
	}
	if cmd.Parameters != nil {
		t.Parameters = *cmd.Parameters
	}

	if err := r.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, fmt.Errorf("updating test: %w", err)
	}
	return t, nil
}

func (r *TestRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&catalog.Test{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("deleting test: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return catalog.ErrTestNotFound
	}
	return nil
}

func (r *TestRepo) List(ctx context.Context, category string) ([]*catalog.Test, error) {
	q := r.db.WithContext(ctx).Order("category, name")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var tests []*catalog.Test
	if err := q.Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("listing tests: %w", err)
	}
	return tests, nil
}

func (r *TestRepo) CountByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&catalog.Test{}).
		Where("id IN ?", ids).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting tests by ids: %w", err)
	}
	return n, nil
}

func (r *TestRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&catalog.Test{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting tests: %w", err)
	}
	return n, nil
}
