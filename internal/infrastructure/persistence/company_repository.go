package persistence

import (
	"context"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements identity.CompanyRepository
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new company repository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by its ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	var company identity.Company
	err := dbFromContext(ctx, r.db).Where("id = ?", id).First(&company).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &company, nil
}

// Save persists a company
func (r *GormCompanyRepository) Save(ctx context.Context, company *identity.Company) error {
	return translateError(dbFromContext(ctx, r.db).Save(company).Error)
}

// Ensure GormCompanyRepository implements the interface
var _ identity.CompanyRepository = (*GormCompanyRepository)(nil)
