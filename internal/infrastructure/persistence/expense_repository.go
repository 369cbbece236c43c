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

// GormExpenseRepository implements finance.ExpenseRepository
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new expense repository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByIDForCompany finds an expense by ID within a company
func (r *GormExpenseRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Expense, error) {
	var expense finance.Expense
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&expense).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &expense, nil
}

// FindAllForCompany lists a company's expenses
func (r *GormExpenseRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Expense, error) {
	var expenses []finance.Expense
	db := r.listQuery(ctx, companyID, filter)
	if err := applyFilter(db, filter).Find(&expenses).Error; err != nil {
		return nil, translateError(err)
	}
	return expenses, nil
}

// CountForCompany counts a company's expenses matching the filter
func (r *GormExpenseRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, companyID, filter).Model(&finance.Expense{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindByDateRange lists a company's expenses within [from, to]
func (r *GormExpenseRepository) FindByDateRange(ctx context.Context, companyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]finance.Expense, error) {
	var expenses []finance.Expense
	db := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("date >= ? AND date <= ?", from, to)
	if err := applyFilter(db, filter).Find(&expenses).Error; err != nil {
		return nil, translateError(err)
	}
	return expenses, nil
}

// Save persists an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	return translateError(dbFromContext(ctx, r.db).Save(expense).Error)
}

// DeleteForCompany removes an expense within a company
func (r *GormExpenseRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&finance.Expense{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormExpenseRepository) listQuery(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if categoryID, ok := filter.Filters["category_id"]; ok {
		db = db.Where("category_id = ?", categoryID)
	}
	if vendorID, ok := filter.Filters["vendor_id"]; ok {
		db = db.Where("vendor_id = ?", vendorID)
	}
	if accountID, ok := filter.Filters["account_id"]; ok {
		db = db.Where("account_id = ?", accountID)
	}
	return db
}

// Ensure GormExpenseRepository implements the interface
var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)
