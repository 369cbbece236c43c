package finance

import (
	"time"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountInput carries data for creating a financial account
type CreateAccountInput struct {
	Name           string
	Type           finance.AccountType
	Currency       string
	InitialBalance decimal.Decimal
}

// CreateCategoryInput carries data for creating a category
type CreateCategoryInput struct {
	Name string
	Kind finance.CategoryKind
}

// PostExpenseInput carries data for posting an expense entry
type PostExpenseInput struct {
	CategoryID  uuid.UUID
	VendorID    *uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	Description string
}

// PostIncomeInput carries data for posting an income entry
type PostIncomeInput struct {
	CategoryID  *uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Date        time.Time
	Description string
}

// CreateRecurringInput carries data for creating a recurring rule
type CreateRecurringInput struct {
	Kind        finance.RecurringKind
	Frequency   finance.RecurringFrequency
	CategoryID  uuid.UUID
	AccountID   uuid.UUID
	VendorID    *uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Description string
	FirstRunAt  time.Time
}

// ProcessDueResult summarizes one scheduler-triggered processing run
type ProcessDueResult struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
