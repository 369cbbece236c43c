package persistence

import (
	"context"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAPITokenRepository implements identity.APITokenRepository
type GormAPITokenRepository struct {
	db *gorm.DB
}

// NewGormAPITokenRepository creates a new API token repository
func NewGormAPITokenRepository(db *gorm.DB) *GormAPITokenRepository {
	return &GormAPITokenRepository{db: db}
}

// FindByIDForCompany finds a token by ID within a company
func (r *GormAPITokenRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.APIToken, error) {
	var token identity.APIToken
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&token).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &token, nil
}

// FindByPrefix finds a token by its unique non-secret prefix. This is the
// request-authentication hot path and hits the prefix unique index.
func (r *GormAPITokenRepository) FindByPrefix(ctx context.Context, prefix string) (*identity.APIToken, error) {
	var token identity.APIToken
	err := dbFromContext(ctx, r.db).Where("prefix = ?", prefix).First(&token).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &token, nil
}

// FindAllForCompany lists a company's tokens
func (r *GormAPITokenRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.APIToken, error) {
	var tokens []identity.APIToken
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if err := applyFilter(db, filter).Find(&tokens).Error; err != nil {
		return nil, translateError(err)
	}
	return tokens, nil
}

// Save persists a token
func (r *GormAPITokenRepository) Save(ctx context.Context, token *identity.APIToken) error {
	return translateError(dbFromContext(ctx, r.db).Save(token).Error)
}

// DeleteForCompany removes a token within a company
func (r *GormAPITokenRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&identity.APIToken{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormAPITokenRepository implements the interface
var _ identity.APITokenRepository = (*GormAPITokenRepository)(nil)
