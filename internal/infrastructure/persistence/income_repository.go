package persistence

import (
	"context"
	"time"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIncomeRepository implements finance.IncomeRepository
type GormIncomeRepository struct {
	db *gorm.DB
}

// NewGormIncomeRepository creates a new income repository
func NewGormIncomeRepository(db *gorm.DB) *GormIncomeRepository {
	return &GormIncomeRepository{db: db}
}

// FindByIDForCompany finds an income entry by ID within a company
func (r *GormIncomeRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Income, error) {
	var income finance.Income
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&income).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &income, nil
}

// FindAllForCompany lists a company's income entries
func (r *GormIncomeRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Income, error) {
	var entries []finance.Income
	db := r.listQuery(ctx, companyID, filter)
	if err := applyFilter(db, filter).Find(&entries).Error; err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}

// CountForCompany counts a company's income entries matching the filter
func (r *GormIncomeRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, companyID, filter).Model(&finance.Income{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindByDateRange lists a company's income entries within [from, to]
func (r *GormIncomeRepository) FindByDateRange(ctx context.Context, companyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]finance.Income, error) {
	var entries []finance.Income
	db := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("date >= ? AND date <= ?", from, to)
	if err := applyFilter(db, filter).Find(&entries).Error; err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}

// Save persists an income entry
func (r *GormIncomeRepository) Save(ctx context.Context, income *finance.Income) error {
	return translateError(dbFromContext(ctx, r.db).Save(income).Error)
}

// DeleteForCompany removes an income entry within a company
func (r *GormIncomeRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&finance.Income{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormIncomeRepository) listQuery(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if categoryID, ok := filter.Filters["category_id"]; ok {
		db = db.Where("category_id = ?", categoryID)
	}
	if accountID, ok := filter.Filters["account_id"]; ok {
		db = db.Where("account_id = ?", accountID)
	}
	if invoiceID, ok := filter.Filters["invoice_id"]; ok {
		db = db.Where("invoice_id = ?", invoiceID)
	}
	return db
}

// Ensure GormIncomeRepository implements the interface
var _ finance.IncomeRepository = (*GormIncomeRepository)(nil)
