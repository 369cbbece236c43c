package finance

import (
	"context"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService manages a company's ledger categories
type CategoryService struct {
	categoryRepo finance.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo finance.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create adds a category to the company
func (s *CategoryService) Create(ctx context.Context, companyID uuid.UUID, input CreateCategoryInput) (*finance.Category, error) {
	category, err := finance.NewCategory(companyID, input.Name, input.Kind)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Get returns one category of the company
func (s *CategoryService) Get(ctx context.Context, companyID, categoryID uuid.UUID) (*finance.Category, error) {
	return s.categoryRepo.FindByIDForCompany(ctx, companyID, categoryID)
}

// List returns the company's categories, optionally filtered by kind
func (s *CategoryService) List(ctx context.Context, companyID uuid.UUID, kind finance.CategoryKind, filter shared.Filter) ([]finance.Category, error) {
	if kind != "" {
		return s.categoryRepo.FindByKind(ctx, companyID, kind)
	}
	return s.categoryRepo.FindAllForCompany(ctx, companyID, filter)
}

// Rename changes a category's name
func (s *CategoryService) Rename(ctx context.Context, companyID, categoryID uuid.UUID, name string) (*finance.Category, error) {
	category, err := s.categoryRepo.FindByIDForCompany(ctx, companyID, categoryID)
	if err != nil {
		return nil, err
	}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, companyID, categoryID uuid.UUID) error {
	return s.categoryRepo.DeleteForCompany(ctx, companyID, categoryID)
}
