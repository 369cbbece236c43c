package identity

import (
	"strings"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CompanyStatus represents the lifecycle status of a company
type CompanyStatus string

const (
	CompanyStatusActive    CompanyStatus = "active"
	CompanyStatusSuspended CompanyStatus = "suspended"
)

// IsValid checks if the company status is valid
func (s CompanyStatus) IsValid() bool {
	switch s {
	case CompanyStatusActive, CompanyStatusSuspended:
		return true
	}
	return false
}

// Company is the tenant boundary. Every other aggregate is owned by a
// company through its company_id foreign key; the company's own ID is the
// tenant key.
type Company struct {
	shared.BaseAggregateRoot
	Name         string        `gorm:"size:200;not null" json:"name"`
	LegalName    string        `gorm:"size:200" json:"legal_name"`
	TaxNumber    string        `gorm:"size:50" json:"tax_number"`
	Email        string        `gorm:"size:200" json:"email"`
	Phone        string        `gorm:"size:50" json:"phone"`
	Address      string        `gorm:"size:500" json:"address"`
	Currency     string        `gorm:"size:3;not null;default:'USD'" json:"currency"`
	LogoKey      string        `gorm:"size:500" json:"logo_key"`
	Status       CompanyStatus `gorm:"size:20;not null;default:'active'" json:"status"`
	SignupOrigin string        `gorm:"size:50" json:"signup_origin"`
}

// TableName returns the table name for GORM
func (Company) TableName() string {
	return "companies"
}

// NewCompany creates a new company
func NewCompany(name, currency string) (*Company, error) {
	if err := validateCompanyName(name); err != nil {
		return nil, err
	}
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "currency must be a 3-letter ISO code")
	}

	company := &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Currency:          strings.ToUpper(currency),
		Status:            CompanyStatusActive,
	}

	company.AddDomainEvent(NewCompanyCreatedEvent(company.ID, company.Name))
	return company, nil
}

// UpdateProfile updates the company profile fields
func (c *Company) UpdateProfile(name, legalName, taxNumber, email, phone, address string) error {
	if err := validateCompanyName(name); err != nil {
		return err
	}
	c.Name = name
	c.LegalName = legalName
	c.TaxNumber = taxNumber
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetLogo records the object-storage key of the company logo
func (c *Company) SetLogo(objectKey string) {
	c.LogoKey = objectKey
	c.Touch()
	c.IncrementVersion()
}

// Suspend marks the company as suspended
func (c *Company) Suspend() error {
	if c.Status == CompanyStatusSuspended {
		return shared.ErrInvalidState
	}
	c.Status = CompanyStatusSuspended
	c.Touch()
	c.IncrementVersion()
	return nil
}

// IsActive reports whether the company is active
func (c *Company) IsActive() bool {
	return c.Status == CompanyStatusActive
}

func validateCompanyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "company name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "company name must not exceed 200 characters")
	}
	return nil
}

// CompanyCreatedEvent is raised when a company is created
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(companyID uuid.UUID, name string) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.company.created", "Company", companyID, companyID),
		Name:            name,
	}
}
