package billing

import (
	"context"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository persists invoices with their line items, always scoped
// by company.
type InvoiceRepository interface {
	shared.CompanyScopedRepository[Invoice]
	FindByNumber(ctx context.Context, companyID uuid.UUID, number string) (*Invoice, error)
	ExistsByNumber(ctx context.Context, companyID uuid.UUID, number string) (bool, error)
	// SaveWithLock persists the invoice guarded by its optimistic-lock
	// version; a stale version yields ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, invoice *Invoice) error
}
