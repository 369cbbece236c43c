package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OpenInvoiceRow is the projection the aging report is computed from: one
// open invoice's due date and unpaid remainder.
type OpenInvoiceRow struct {
	InvoiceID   uuid.UUID
	DueDate     time.Time
	Outstanding decimal.Decimal
}

// Repository exposes the read-only, company-scoped aggregations behind the
// reporting endpoints. Both queries are deterministic for a given data
// snapshot; a missing date range means all time.
type Repository interface {
	// OpenInvoices returns the open-invoice projection for the company,
	// optionally restricted to invoices issued within [start, end].
	OpenInvoices(ctx context.Context, companyID uuid.UUID, start, end *time.Time) ([]OpenInvoiceRow, error)

	// InvoiceTotalsByStatus returns per-status counts and totals for the company
	InvoiceTotalsByStatus(ctx context.Context, companyID uuid.UUID) ([]StatusLine, error)
}
