package shared

import (
	"github.com/google/uuid"
)

// BaseAggregateRoot provides common aggregate root behavior:
// optimistic-lock versioning and domain event collection.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1" json:"version"`
	domainEvents []DomainEvent `gorm:"-" json:"-"`
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// IncrementVersion increments the optimistic-lock version
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent records a domain event on the aggregate
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// DomainEvents returns the recorded domain events
func (a *BaseAggregateRoot) DomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents removes all recorded domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// TenantAggregateRoot is an aggregate root owned by a company (the tenant).
// Every tenant-owned table carries a non-null, indexed company_id; all
// read/write paths must filter by it.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID  `gorm:"type:uuid;not null;index;column:company_id" json:"company_id"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
}

// NewTenantAggregateRoot creates a new tenant-owned aggregate root
func NewTenantAggregateRoot(companyID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CompanyID:         companyID,
	}
}

// BelongsTo reports whether the aggregate is owned by the given company
func (a *TenantAggregateRoot) BelongsTo(companyID uuid.UUID) bool {
	return a.CompanyID == companyID
}
