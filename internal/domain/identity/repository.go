package identity

import (
	"context"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyRepository persists companies. Companies are the tenant roots
// themselves, so lookups are by primary ID only.
type CompanyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)
	Save(ctx context.Context, company *Company) error
}

// UserRepository persists users. Listing operations exclude soft-deleted
// users; lookups by ID still return them so historical references resolve.
type UserRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*User, error)
	FindByEmailForCompany(ctx context.Context, companyID uuid.UUID, email string) (*User, error)
	// FindAllByEmail resolves a login email across companies. Email is
	// unique per company, not globally, so the same address can belong to
	// one user in each company; authentication disambiguates by password.
	// Used only before a company context exists.
	FindAllByEmail(ctx context.Context, email string) ([]User, error)
	FindActiveForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]User, error)
	CountActiveForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByEmailForCompany(ctx context.Context, companyID uuid.UUID, email string) (bool, error)
	Save(ctx context.Context, user *User) error
}

// APITokenRepository persists API tokens. Lookup by prefix is the hot path
// for request authentication and must use the unique prefix index.
type APITokenRepository interface {
	FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*APIToken, error)
	FindByPrefix(ctx context.Context, prefix string) (*APIToken, error)
	FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]APIToken, error)
	Save(ctx context.Context, token *APIToken) error
	DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error
}
