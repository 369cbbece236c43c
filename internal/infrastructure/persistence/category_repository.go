package persistence

import (
	"context"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCategoryRepository implements finance.CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new category repository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForCompany finds a category by ID within a company
func (r *GormCategoryRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Category, error) {
	var category finance.Category
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

// FindAllForCompany lists a company's categories
func (r *GormCategoryRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Category, error) {
	var categories []finance.Category
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if err := applyFilter(db, filter).Find(&categories).Error; err != nil {
		return nil, translateError(err)
	}
	return categories, nil
}

// CountForCompany counts a company's categories
func (r *GormCategoryRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&finance.Category{}).
		Scopes(tenant.CompanyScope(companyID)).Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindByKind lists a company's categories of one kind
func (r *GormCategoryRepository) FindByKind(ctx context.Context, companyID uuid.UUID, kind finance.CategoryKind) ([]finance.Category, error) {
	var categories []finance.Category
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("kind = ?", kind).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, translateError(err)
	}
	return categories, nil
}

// Save persists a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *finance.Category) error {
	return translateError(dbFromContext(ctx, r.db).Save(category).Error)
}

// DeleteForCompany removes a category within a company
func (r *GormCategoryRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&finance.Category{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCategoryRepository implements the interface
var _ finance.CategoryRepository = (*GormCategoryRepository)(nil)
