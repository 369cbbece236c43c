package finance

import (
	"strings"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryKind distinguishes expense categories from income categories
type CategoryKind string

const (
	CategoryKindExpense CategoryKind = "expense"
	CategoryKindIncome  CategoryKind = "income"
)

// IsValid checks if the category kind is valid
func (k CategoryKind) IsValid() bool {
	return k == CategoryKindExpense || k == CategoryKindIncome
}

// Category is a company-scoped classification for ledger entries
type Category struct {
	shared.TenantAggregateRoot
	Name string       `gorm:"size:100;not null" json:"name"`
	Kind CategoryKind `gorm:"size:20;not null" json:"kind"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category for the given company
func NewCategory(companyID uuid.UUID, name string, kind CategoryKind) (*Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "category name is required")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "category kind must be expense or income")
	}

	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Name:                name,
		Kind:                kind,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "category name is required")
	}
	c.Name = name
	c.Touch()
	c.IncrementVersion()
	return nil
}
