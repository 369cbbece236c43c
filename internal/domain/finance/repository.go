package finance

import (
	"context"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AccountRepository persists accounts, always scoped by company
type AccountRepository interface {
	shared.CompanyScopedRepository[Account]
	// SaveWithLock persists the account guarded by its optimistic-lock
	// version; concurrent balance writers lose with ErrConcurrencyConflict.
	SaveWithLock(ctx context.Context, account *Account) error
}

// CategoryRepository persists categories, always scoped by company
type CategoryRepository interface {
	shared.CompanyScopedRepository[Category]
	FindByKind(ctx context.Context, companyID uuid.UUID, kind CategoryKind) ([]Category, error)
}

// ExpenseRepository persists expense entries, always scoped by company
type ExpenseRepository interface {
	shared.CompanyScopedRepository[Expense]
	FindByDateRange(ctx context.Context, companyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Expense, error)
}

// IncomeRepository persists income entries, always scoped by company
type IncomeRepository interface {
	shared.CompanyScopedRepository[Income]
	FindByDateRange(ctx context.Context, companyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]Income, error)
}

// RecurringTransactionRepository persists recurring rules
type RecurringTransactionRepository interface {
	shared.CompanyScopedRepository[RecurringTransaction]
	// FindDueForCompany returns the company's active rules whose next run
	// is at or before now. Used by the trigger-driven processor only.
	FindDueForCompany(ctx context.Context, companyID uuid.UUID, now time.Time, limit int) ([]RecurringTransaction, error)
}
