package persistence

import (
	"context"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements finance.AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new account repository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByIDForCompany finds an account by ID within a company
func (r *GormAccountRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Account, error) {
	var account finance.Account
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&account).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &account, nil
}

// FindAllForCompany lists a company's accounts
func (r *GormAccountRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Account, error) {
	var accounts []finance.Account
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if err := applyFilter(db, filter).Find(&accounts).Error; err != nil {
		return nil, translateError(err)
	}
	return accounts, nil
}

// CountForCompany counts a company's accounts
func (r *GormAccountRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&finance.Account{}).
		Scopes(tenant.CompanyScope(companyID)).Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Save persists an account
func (r *GormAccountRepository) Save(ctx context.Context, account *finance.Account) error {
	return translateError(dbFromContext(ctx, r.db).Save(account).Error)
}

// SaveWithLock persists the account guarded by its optimistic-lock
// version. Concurrent balance writers lose with ErrConcurrencyConflict
// and the surrounding transaction rolls back.
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, account *finance.Account) error {
	result := dbFromContext(ctx, r.db).Model(&finance.Account{}).
		Where("id = ? AND company_id = ? AND version = ?", account.ID, account.CompanyID, account.Version-1).
		Select("*").Omit("id", "company_id", "created_at").
		Updates(account)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteForCompany removes an account within a company
func (r *GormAccountRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&finance.Account{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAccountRepository implements the interface
var _ finance.AccountRepository = (*GormAccountRepository)(nil)
