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

// GormVendorRepository implements partner.VendorRepository
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new vendor repository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByIDForCompany finds a vendor by ID within a company
func (r *GormVendorRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*partner.Vendor, error) {
	var vendor partner.Vendor
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&vendor).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &vendor, nil
}

// FindAllForCompany lists a company's vendors
func (r *GormVendorRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Vendor, error) {
	var vendors []partner.Vendor
	db := r.listQuery(ctx, companyID, filter)
	if err := applyFilter(db, filter).Find(&vendors).Error; err != nil {
		return nil, translateError(err)
	}
	return vendors, nil
}

// CountForCompany counts a company's vendors matching the filter
func (r *GormVendorRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, companyID, filter).Model(&partner.Vendor{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindByCode finds a vendor by code within a company
func (r *GormVendorRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*partner.Vendor, error) {
	var vendor partner.Vendor
	err := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("code = ?", strings.ToUpper(code)).
		First(&vendor).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &vendor, nil
}

// ExistsByCode checks whether a vendor code is taken within a company
func (r *GormVendorRepository) ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&partner.Vendor{}).
		Scopes(tenant.CompanyScope(companyID)).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Save persists a vendor
func (r *GormVendorRepository) Save(ctx context.Context, vendor *partner.Vendor) error {
	return translateError(dbFromContext(ctx, r.db).Save(vendor).Error)
}

// DeleteForCompany removes a vendor within a company
func (r *GormVendorRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		Delete(&partner.Vendor{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormVendorRepository) listQuery(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
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

// Ensure GormVendorRepository implements the interface
var _ partner.VendorRepository = (*GormVendorRepository)(nil)
