package partner

import (
	"context"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientRepository persists clients, always scoped by company
type ClientRepository interface {
	shared.CompanyScopedRepository[Client]
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Client, error)
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)
}

// VendorRepository persists vendors, always scoped by company
type VendorRepository interface {
	shared.CompanyScopedRepository[Vendor]
	FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*Vendor, error)
	ExistsByCode(ctx context.Context, companyID uuid.UUID, code string) (bool, error)
}
