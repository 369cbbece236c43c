package persistence

import (
	"context"
	"strings"

	"github.com/finvoice/backend/internal/domain/billing"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements billing.InvoiceRepository
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForCompany finds an invoice with its line items within a company
func (r *GormInvoiceRepository) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).
		First(&invoice).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

// FindAllForCompany lists a company's invoices with line items
func (r *GormInvoiceRepository) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	db := r.listQuery(ctx, companyID, filter).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if err := applyFilter(db, filter).Find(&invoices).Error; err != nil {
		return nil, translateError(err)
	}
	return invoices, nil
}

// CountForCompany counts a company's invoices matching the filter
func (r *GormInvoiceRepository) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.listQuery(ctx, companyID, filter).Model(&billing.Invoice{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// FindByNumber finds an invoice by its number within a company
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*billing.Invoice, error) {
	var invoice billing.Invoice
	err := dbFromContext(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Scopes(tenant.CompanyScope(companyID)).
		Where("number = ?", strings.ToUpper(number)).
		First(&invoice).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &invoice, nil
}

// ExistsByNumber checks whether an invoice number is taken within a company
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, companyID uuid.UUID, number string) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&billing.Invoice{}).
		Scopes(tenant.CompanyScope(companyID)).
		Where("number = ?", strings.ToUpper(number)).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

// Save persists an invoice and replaces its line items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	db := dbFromContext(ctx, r.db)
	if err := db.Omit("Items").Save(invoice).Error; err != nil {
		return translateError(err)
	}
	return r.replaceItems(db, invoice)
}

// SaveWithLock persists the invoice guarded by its optimistic-lock
// version. The domain mutator already incremented Version, so the row
// must still hold the previous value.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	db := dbFromContext(ctx, r.db)
	result := db.Model(&billing.Invoice{}).
		Where("id = ? AND company_id = ? AND version = ?", invoice.ID, invoice.CompanyID, invoice.Version-1).
		Select("*").Omit("id", "company_id", "created_at", "Items").
		Updates(invoice)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return r.replaceItems(db, invoice)
}

// DeleteForCompany removes an invoice and its line items within a company
func (r *GormInvoiceRepository) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db)
	result := db.Scopes(tenant.CompanyScope(companyID)).
		Where("id = ?", id).Delete(&billing.Invoice{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return translateError(db.Where("invoice_id = ?", id).Delete(&billing.LineItem{}).Error)
}

func (r *GormInvoiceRepository) replaceItems(db *gorm.DB, invoice *billing.Invoice) error {
	if err := db.Where("invoice_id = ?", invoice.ID).Delete(&billing.LineItem{}).Error; err != nil {
		return translateError(err)
	}
	if len(invoice.Items) == 0 {
		return nil
	}
	items := make([]billing.LineItem, len(invoice.Items))
	copy(items, invoice.Items)
	for i := range items {
		items[i].InvoiceID = invoice.ID
	}
	return translateError(db.Create(&items).Error)
}

func (r *GormInvoiceRepository) listQuery(ctx context.Context, companyID uuid.UUID, filter shared.Filter) *gorm.DB {
	db := dbFromContext(ctx, r.db).Scopes(tenant.CompanyScope(companyID))
	if filter.Search != "" {
		db = db.Where("number LIKE ?", "%"+strings.ToUpper(filter.Search)+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		db = db.Where("status = ?", status)
	}
	if clientID, ok := filter.Filters["client_id"]; ok {
		db = db.Where("client_id = ?", clientID)
	}
	return db
}

// Ensure GormInvoiceRepository implements the interface
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
