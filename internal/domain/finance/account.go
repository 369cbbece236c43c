package finance

import (
	"strings"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType classifies a financial account
type AccountType string

const (
	AccountTypeBank   AccountType = "bank"
	AccountTypeCash   AccountType = "cash"
	AccountTypeCredit AccountType = "credit"
	AccountTypeOther  AccountType = "other"
)

// IsValid checks if the account type is valid
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCash, AccountTypeCredit, AccountTypeOther:
		return true
	}
	return false
}

// Account is a company-scoped financial account. Invariant, enforced by
// application logic: CurrentBalance equals InitialBalance adjusted by every
// posted transaction referencing the account. Balance mutations must happen
// inside the same database transaction as the ledger row they reflect.
type Account struct {
	shared.TenantAggregateRoot
	Name           string          `gorm:"size:200;not null" json:"name"`
	Type           AccountType     `gorm:"size:20;not null;default:'bank'" json:"type"`
	Currency       string          `gorm:"size:3;not null" json:"currency"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"current_balance"`
	Active         bool            `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new account with current balance equal to the
// initial balance.
func NewAccount(companyID uuid.UUID, name string, accountType AccountType, currency string, initialBalance decimal.Decimal) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "account name is required")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "invalid account type")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "currency must be a 3-letter ISO code")
	}

	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Name:                name,
		Type:                accountType,
		Currency:            strings.ToUpper(currency),
		InitialBalance:      initialBalance,
		CurrentBalance:      initialBalance,
		Active:              true,
	}, nil
}

// Credit increases the current balance
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "credit amount must be positive")
	}
	a.CurrentBalance = a.CurrentBalance.Add(amount)
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Debit decreases the current balance. Credit accounts may go negative;
// other account types must retain a non-negative balance.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "debit amount must be positive")
	}
	next := a.CurrentBalance.Sub(amount)
	if a.Type != AccountTypeCredit && next.IsNegative() {
		return shared.ErrInsufficientBalance
	}
	a.CurrentBalance = next
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Rename changes the account name
func (a *Account) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "account name is required")
	}
	a.Name = name
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Deactivate marks the account inactive; balances are preserved
func (a *Account) Deactivate() error {
	if !a.Active {
		return shared.ErrInvalidState
	}
	a.Active = false
	a.Touch()
	a.IncrementVersion()
	return nil
}
