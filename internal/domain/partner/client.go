package partner

import (
	"strings"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientStatus represents the lifecycle status of a client
type ClientStatus string

const (
	ClientStatusActive   ClientStatus = "active"
	ClientStatusInactive ClientStatus = "inactive"
)

// IsValid checks if the client status is valid
func (s ClientStatus) IsValid() bool {
	switch s {
	case ClientStatusActive, ClientStatusInactive:
		return true
	}
	return false
}

// Client is a company-scoped counterparty that receives invoices
type Client struct {
	shared.TenantAggregateRoot
	Code    string       `gorm:"size:50;not null" json:"code"`
	Name    string       `gorm:"size:200;not null" json:"name"`
	Email   string       `gorm:"size:200" json:"email"`
	Phone   string       `gorm:"size:50" json:"phone"`
	Address string       `gorm:"size:500" json:"address"`
	Notes   string       `gorm:"size:1000" json:"notes"`
	Status  ClientStatus `gorm:"size:20;not null;default:'active'" json:"status"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client for the given company
func NewClient(companyID uuid.UUID, code, name string) (*Client, error) {
	if err := validatePartnerCode(code); err != nil {
		return nil, err
	}
	if err := validatePartnerName(name); err != nil {
		return nil, err
	}

	client := &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              ClientStatusActive,
	}

	client.AddDomainEvent(NewClientCreatedEvent(client.ID, companyID, client.Code))
	return client, nil
}

// Update updates the client's mutable fields
func (c *Client) Update(name, email, phone, address, notes string) error {
	if err := validatePartnerName(name); err != nil {
		return err
	}
	c.Name = name
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.Notes = notes
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate marks the client as inactive
func (c *Client) Deactivate() error {
	if c.Status == ClientStatusInactive {
		return shared.ErrInvalidState
	}
	c.Status = ClientStatusInactive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Activate marks the client as active
func (c *Client) Activate() error {
	if c.Status == ClientStatusActive {
		return shared.ErrInvalidState
	}
	c.Status = ClientStatusActive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// IsActive reports whether the client is active
func (c *Client) IsActive() bool {
	return c.Status == ClientStatusActive
}

func validatePartnerCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "code is required")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "code must not exceed 50 characters")
	}
	return nil
}

func validatePartnerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "name is required")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "name must not exceed 200 characters")
	}
	return nil
}

// ClientCreatedEvent is raised when a client is created
type ClientCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewClientCreatedEvent creates a new ClientCreatedEvent
func NewClientCreatedEvent(clientID, companyID uuid.UUID, code string) *ClientCreatedEvent {
	return &ClientCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("partner.client.created", "Client", clientID, companyID),
		Code:            code,
	}
}
