package partner

import (
	"strings"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// VendorStatus represents the lifecycle status of a vendor
type VendorStatus string

const (
	VendorStatusActive   VendorStatus = "active"
	VendorStatusInactive VendorStatus = "inactive"
)

// IsValid checks if the vendor status is valid
func (s VendorStatus) IsValid() bool {
	switch s {
	case VendorStatusActive, VendorStatusInactive:
		return true
	}
	return false
}

// Vendor is a company-scoped counterparty that expenses are paid to
type Vendor struct {
	shared.TenantAggregateRoot
	Code    string       `gorm:"size:50;not null" json:"code"`
	Name    string       `gorm:"size:200;not null" json:"name"`
	Email   string       `gorm:"size:200" json:"email"`
	Phone   string       `gorm:"size:50" json:"phone"`
	Address string       `gorm:"size:500" json:"address"`
	Notes   string       `gorm:"size:1000" json:"notes"`
	Status  VendorStatus `gorm:"size:20;not null;default:'active'" json:"status"`
}

// TableName returns the table name for GORM
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates a new vendor for the given company
func NewVendor(companyID uuid.UUID, code, name string) (*Vendor, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	vendor := &Vendor{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              VendorStatusActive,
	}

	vendor.AddDomainEvent(NewVendorCreatedEvent(vendor.ID, companyID, vendor.Code))
	return vendor, nil
}

// Update updates the vendor's mutable fields
func (v *Vendor) Update(name, email, phone, address, notes string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}
	v.Name = name
	v.Email = email
	v.Phone = phone
	v.Address = address
	v.Notes = notes
	v.Touch()
	v.IncrementVersion()
	return nil
}

// Deactivate marks the vendor as inactive
func (v *Vendor) Deactivate() error {
	if v.Status == VendorStatusInactive {
		return shared.ErrInvalidState
	}
	v.Status = VendorStatusInactive
	v.Touch()
	v.IncrementVersion()
	return nil
}

// IsActive reports whether the vendor is active
func (v *Vendor) IsActive() bool {
	return v.Status == VendorStatusActive
}

// VendorCreatedEvent is raised when a vendor is created
type VendorCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewVendorCreatedEvent creates a new VendorCreatedEvent
func NewVendorCreatedEvent(vendorID, companyID uuid.UUID, code string) *VendorCreatedEvent {
	return &VendorCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("partner.vendor.created", "Vendor", vendorID, companyID),
		Code:            code,
	}
}
