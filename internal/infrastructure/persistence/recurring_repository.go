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

// GormRecurringRepository implements finance.RecurringTransactionRepository
type GormRecurringRepository struct {
	db *gorm.DB
}

// NewGormRecurringRepository creates a new recurring transaction repository
func NewGormRecurringRepository(db *gorm.DB) *GormRecurringRepository {
	return &GormRecurringRepository{db: db}
}

// FindByIDForCompany finds a recurring rule by ID within a company
func (r *GormRecurringRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.RecurringTransaction, error) {
	var rule finance.RecurringTransaction
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&rule).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &rule, nil
}

// FindAllForCompany lists a company's recurring rules
func (r *GormRecurringRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.RecurringTransaction, error) {
	var rules []finance.RecurringTransaction
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if err := applyFilter(db, filter).Find(&rules).Error; err != nil {
		return nil, translateError(err)
	}
	return rules, nil
}

// CountForCompany counts a company's recurring rules
func (r *GormRecurringRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&finance.RecurringTransaction{}).
		Scopes(tenant.CompanyScope(companyID)).Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindDueForCompany returns the company's active rules due at or before
// now. It serves only the trigger-driven processor.
func (r *GormRecurringRepository) FindDueForCompany(ctx context.Context, companyID uuid.UUID, now time.Time, limit int) ([]finance.RecurringTransaction, error) {
	if limit <= 0 {
		limit = 100
	}
	var rules []finance.RecurringTransaction
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("active = ? AND next_run_at <= ?", true, now).
		Order("next_run_at ASC").
		Limit(limit).
		Find(&rules).Error
	if err != nil {
		return nil, translateError(err)
	}
	return rules, nil
}

// Save persists a recurring rule
func (r *GormRecurringRepository) Save(ctx context.Context, rule *finance.RecurringTransaction) error {
	return translateError(dbFromContext(ctx, r.db).Save(rule).Error)
}

// DeleteForCompany removes a recurring rule within a company
func (r *GormRecurringRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&finance.RecurringTransaction{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRecurringRepository implements the interface
var _ finance.RecurringTransactionRepository = (*GormRecurringRepository)(nil)
