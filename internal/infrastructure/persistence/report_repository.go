package persistence

import (
	"context"
	"time"

	"github.com/finvoice/backend/internal/domain/billing"
	"github.com/finvoice/backend/internal/domain/report"
	"github.com/finvoice/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with aggregate
// queries over the invoices table. Bucketing and grand totals live in
// the domain layer; this type only produces the projections.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new report repository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// OpenInvoices returns the open-invoice projection for the company,
// optionally restricted to invoices issued within [start, end].
func (r *GormReportRepository) OpenInvoices(ctx context.Context, companyID uuid.UUID, start, end *time.Time) ([]report.OpenInvoiceRow, error) {
	db := dbFromContext(ctx, r.db).Model(&billing.Invoice{}).
		Select("id AS invoice_id, due_date, total - paid_amount AS outstanding").
		Scopes(tenant.CompanyScope(companyID)).
		Where("status IN ?", billing.OpenStatuses())
	if start != nil {
		db = db.Where("issue_date >= ?", *start)
	}
	if end != nil {
		db = db.Where("issue_date <= ?", *end)
	}

	var rows []report.OpenInvoiceRow
	if err := db.Order("due_date ASC").Scan(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return rows, nil
}

// InvoiceTotalsByStatus returns per-status counts and totals for the company
func (r *GormReportRepository) InvoiceTotalsByStatus(ctx context.Context, companyID uuid.UUID) ([]report.StatusLine, error) {
	var lines []report.StatusLine
	err := dbFromContext(ctx, r.db).Model(&billing.Invoice{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS total").
		Scopes(tenant.CompanyScope(companyID)).
		Group("status").
		Order("status ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, translateError(err)
	}
	return lines, nil
}

// Ensure GormReportRepository implements the interface
var _ report.Repository = (*GormReportRepository)(nil)
