package finance

import (
	"strings"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Income is a company-scoped ledger entry for money coming in. Invoice
// payments produce income rows; posting credits the account inside the
// same database transaction.
type Income struct {
	shared.TenantAggregateRoot
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"size:500" json:"description"`
	RecurringID *uuid.UUID      `gorm:"type:uuid;index" json:"recurring_id,omitempty"`
}

// TableName returns the table name for GORM
func (Income) TableName() string {
	return "income"
}

// NewIncome creates a new income entry
func NewIncome(companyID, accountID uuid.UUID, amount decimal.Decimal, currency string, date time.Time, description string) (*Income, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "account is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "income amount must be positive")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "currency must be a 3-letter ISO code")
	}

	return &Income{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		AccountID:           accountID,
		Amount:              amount,
		Currency:            strings.ToUpper(currency),
		Date:                date,
		Description:         description,
	}, nil
}

// AttachCategory links the income to a category
func (i *Income) AttachCategory(categoryID uuid.UUID) {
	if categoryID == uuid.Nil {
		i.CategoryID = nil
	} else {
		i.CategoryID = &categoryID
	}
	i.Touch()
}

// AttachInvoice records the invoice this income settles
func (i *Income) AttachInvoice(invoiceID uuid.UUID) {
	i.InvoiceID = &invoiceID
	i.Touch()
}

// MarkRecurringSource records the recurring rule that produced this entry
func (i *Income) MarkRecurringSource(recurringID uuid.UUID) {
	i.RecurringID = &recurringID
	i.Touch()
}
