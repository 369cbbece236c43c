package finance

import (
	"fmt"
	"strings"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecurringKind distinguishes recurring expense rules from income rules
type RecurringKind string

const (
	RecurringKindExpense RecurringKind = "expense"
	RecurringKindIncome  RecurringKind = "income"
)

// IsValid checks if the recurring kind is valid
func (k RecurringKind) IsValid() bool {
	return k == RecurringKindExpense || k == RecurringKindIncome
}

// RecurringFrequency is the cadence of a recurring rule
type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "daily"
	FrequencyWeekly  RecurringFrequency = "weekly"
	FrequencyMonthly RecurringFrequency = "monthly"
	FrequencyYearly  RecurringFrequency = "yearly"
)

// IsValid checks if the frequency is valid
func (f RecurringFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Next returns the occurrence following the given one
func (f RecurringFrequency) Next(from time.Time) time.Time {
	switch f {
	case FrequencyDaily:
		return from.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case FrequencyYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// RecurringTransaction is a template that posts an expense or income entry
// on a fixed cadence. Processing is triggered by an external scheduler
// hitting an HTTP endpoint; occurrence keys make duplicate triggers no-ops.
type RecurringTransaction struct {
	shared.TenantAggregateRoot
	Kind        RecurringKind      `gorm:"size:20;not null" json:"kind"`
	Frequency   RecurringFrequency `gorm:"size:20;not null" json:"frequency"`
	CategoryID  uuid.UUID          `gorm:"type:uuid;not null" json:"category_id"`
	AccountID   uuid.UUID          `gorm:"type:uuid;not null" json:"account_id"`
	VendorID    *uuid.UUID         `gorm:"type:uuid" json:"vendor_id,omitempty"`
	Amount      decimal.Decimal    `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency    string             `gorm:"size:3;not null" json:"currency"`
	Description string             `gorm:"size:500" json:"description"`
	NextRunAt   time.Time          `gorm:"not null;index" json:"next_run_at"`
	LastRunAt   *time.Time         `json:"last_run_at,omitempty"`
	Active      bool               `gorm:"not null;default:true" json:"active"`
}

// TableName returns the table name for GORM
func (RecurringTransaction) TableName() string {
	return "recurring_transactions"
}

// NewRecurringTransaction creates a new recurring rule
func NewRecurringTransaction(companyID, categoryID, accountID uuid.UUID, kind RecurringKind, frequency RecurringFrequency, amount decimal.Decimal, currency string, firstRunAt time.Time, description string) (*RecurringTransaction, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "recurring kind must be expense or income")
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_FREQUENCY", "invalid recurring frequency")
	}
	if categoryID == uuid.Nil || accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "category and account are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "amount must be positive")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "currency must be a 3-letter ISO code")
	}

	return &RecurringTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Kind:                kind,
		Frequency:           frequency,
		CategoryID:          categoryID,
		AccountID:           accountID,
		Amount:              amount,
		Currency:            strings.ToUpper(currency),
		Description:         description,
		NextRunAt:           firstRunAt,
		Active:              true,
	}, nil
}

// IsDue reports whether the rule should fire at the given time
func (r *RecurringTransaction) IsDue(now time.Time) bool {
	return r.Active && !r.NextRunAt.After(now)
}

// OccurrenceKey identifies one scheduled occurrence of the rule. Two
// scheduler triggers racing over the same occurrence claim the same key.
func (r *RecurringTransaction) OccurrenceKey() string {
	return fmt.Sprintf("%s:%s", r.ID, r.NextRunAt.UTC().Format(time.RFC3339))
}

// Advance moves the schedule to the next occurrence after a successful run
func (r *RecurringTransaction) Advance(ranAt time.Time) {
	r.LastRunAt = &ranAt
	r.NextRunAt = r.Frequency.Next(r.NextRunAt)
	r.Touch()
	r.IncrementVersion()
}

// Deactivate stops the rule from firing
func (r *RecurringTransaction) Deactivate() error {
	if !r.Active {
		return shared.ErrInvalidState
	}
	r.Active = false
	r.Touch()
	r.IncrementVersion()
	return nil
}
