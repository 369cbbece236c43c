package finance

import (
	"strings"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a company-scoped ledger entry for money going out. Posting an
// expense debits its account inside the same database transaction.
type Expense struct {
	shared.TenantAggregateRoot
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"category_id"`
	VendorID    *uuid.UUID      `gorm:"type:uuid;index" json:"vendor_id,omitempty"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Description string          `gorm:"size:500" json:"description"`
	RecurringID *uuid.UUID      `gorm:"type:uuid;index" json:"recurring_id,omitempty"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "expenses"
}

// NewExpense creates a new expense entry
func NewExpense(companyID, categoryID, accountID uuid.UUID, amount decimal.Decimal, currency string, date time.Time, description string) (*Expense, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "category is required")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "account is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "expense amount must be positive")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "currency must be a 3-letter ISO code")
	}

	return &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		CategoryID:          categoryID,
		AccountID:           accountID,
		Amount:              amount,
		Currency:            strings.ToUpper(currency),
		Date:                date,
		Description:         description,
	}, nil
}

// AttachVendor links the expense to a vendor
func (e *Expense) AttachVendor(vendorID uuid.UUID) {
	if vendorID == uuid.Nil {
		e.VendorID = nil
	} else {
		e.VendorID = &vendorID
	}
	e.Touch()
}

// MarkRecurringSource records the recurring rule that produced this entry
func (e *Expense) MarkRecurringSource(recurringID uuid.UUID) {
	e.RecurringID = &recurringID
	e.Touch()
}
