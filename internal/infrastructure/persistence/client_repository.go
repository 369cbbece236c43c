package persistence

import (
	"context"
	"strings"

	"github.com/finvoice/backend/internal/domain/partner"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements partner.ClientRepository
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new client repository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByIDForCompany finds a client by ID within a company
func (r *GormClientRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*partner.Client, error) {
	var client partner.Client
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

// FindAllForCompany lists a company's clients
func (r *GormClientRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Client, error) {
	var clients []partner.Client
	db := r.listQuery(ctx, companyID, filter)
	if err := applyFilter(db, filter).Find(&clients).Error; err != nil {
		return nil, translateError(err)
	}
	return clients, nil
}

// CountForCompany counts a company's clients matching the filter
func (r *GormClientRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, companyID, filter).Model(&partner.Client{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindByCode finds a client by code within a company
func (r *GormClientRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*partner.Client, error) {
	var client partner.Client
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("code = ?", strings.ToUpper(code)).
		First(&client).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &client, nil
}

// ExistsByCode checks whether a client code is taken within a company
func (r *GormClientRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&partner.Client{}).
		Scopes(tenant.CompanyScope(companyID)).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Save persists a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return translateError(dbFromContext(ctx, r.db).Save(client).Error)
}

// DeleteForCompany removes a client within a company
func (r *GormClientRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&partner.Client{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormClientRepository) listQuery(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		db = db.Where("name LIKE ? OR code LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		db = db.Where("status = ?", status)
	}
	return db
}

// Ensure GormClientRepository implements the interface
var _ partner.ClientRepository = (*GormClientRepository)(nil)
