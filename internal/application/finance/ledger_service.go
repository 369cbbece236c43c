package finance

import (
	"context"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService posts expense and income entries. Every posting adjusts
// the target account's balance in the same database transaction as the
// ledger row, so the two can never diverge.
type LedgerService struct {
	expenseRepo  finance.ExpenseRepository
	incomeRepo   finance.IncomeRepository
	accountRepo  finance.AccountRepository
	categoryRepo finance.CategoryRepository
	txManager    shared.TxManager
	logger       *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	expenseRepo finance.ExpenseRepository,
	incomeRepo finance.IncomeRepository,
	accountRepo finance.AccountRepository,
	categoryRepo finance.CategoryRepository,
	txManager shared.TxManager,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		expenseRepo:  expenseRepo,
		incomeRepo:   incomeRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// PostExpense records an expense and debits its account atomically
func (s *LedgerService) PostExpense(ctx context.Context, companyID uuid.UUID, input PostExpenseInput) (*finance.Expense, error) {
	category, err := s.categoryRepo.FindByIDForCompany(ctx, companyID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Kind != finance.CategoryKindExpense {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is not an expense category")
	}

	var expense *finance.Expense
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindByIDForCompany(txCtx, companyID, input.AccountID)
		if err != nil {
			return err
		}

		expense, err = finance.NewExpense(companyID, input.CategoryID, input.AccountID,
			input.Amount, input.Currency, input.Date, input.Description)
		if err != nil {
			return err
		}
		if input.VendorID != nil {
			expense.AttachVendor(*input.VendorID)
		}

		if err := s.expenseRepo.Save(txCtx, expense); err != nil {
			return err
		}
		if err := account.Debit(input.Amount); err != nil {
			return err
		}
		return s.accountRepo.SaveWithLock(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Expense posted",
		zap.String("expense_id", expense.ID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("company_id", companyID.String()))
	return expense, nil
}

// PostIncome records an income entry and credits its account atomically
func (s *LedgerService) PostIncome(ctx context.Context, companyID uuid.UUID, input PostIncomeInput) (*finance.Income, error) {
	if input.CategoryID != nil {
		category, err := s.categoryRepo.FindByIDForCompany(ctx, companyID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category.Kind != finance.CategoryKindIncome {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is not an income category")
		}
	}

	var income *finance.Income
	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindByIDForCompany(txCtx, companyID, input.AccountID)
		if err != nil {
			return err
		}

		income, err = finance.NewIncome(companyID, input.AccountID,
			input.Amount, input.Currency, input.Date, input.Description)
		if err != nil {
			return err
		}
		if input.CategoryID != nil {
			income.AttachCategory(*input.CategoryID)
		}

		if err := s.incomeRepo.Save(txCtx, income); err != nil {
			return err
		}
		if err := account.Credit(input.Amount); err != nil {
			return err
		}
		return s.accountRepo.SaveWithLock(txCtx, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Income posted",
		zap.String("income_id", income.ID.String()),
		zap.String("amount", input.Amount.String()),
		zap.String("company_id", companyID.String()))
	return income, nil
}

// ListExpenses returns the company's expenses
func (s *LedgerService) ListExpenses(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Expense, int64, error) {
	expenses, err := s.expenseRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.expenseRepo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return expenses, total, nil
}

// GetExpense returns one expense of the company
func (s *LedgerService) GetExpense(ctx context.Context, companyID, expenseID uuid.UUID) (*finance.Expense, error) {
	return s.expenseRepo.FindByIDForCompany(ctx, companyID, expenseID)
}

// DeleteExpense removes an expense and refunds its account atomically
func (s *LedgerService) DeleteExpense(ctx context.Context, companyID, expenseID uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		expense, err := s.expenseRepo.FindByIDForCompany(txCtx, companyID, expenseID)
		if err != nil {
			return err
		}
		account, err := s.accountRepo.FindByIDForCompany(txCtx, companyID, expense.AccountID)
		if err != nil {
			return err
		}

		if err := s.expenseRepo.DeleteForCompany(txCtx, companyID, expenseID); err != nil {
			return err
		}
		if err := account.Credit(expense.Amount); err != nil {
			return err
		}
		return s.accountRepo.SaveWithLock(txCtx, account)
	})
}

// ListIncome returns the company's income entries
func (s *LedgerService) ListIncome(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Income, int64, error) {
	entries, err := s.incomeRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.incomeRepo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// GetIncome returns one income entry of the company
func (s *LedgerService) GetIncome(ctx context.Context, companyID, incomeID uuid.UUID) (*finance.Income, error) {
	return s.incomeRepo.FindByIDForCompany(ctx, companyID, incomeID)
}

// DeleteIncome removes an income entry and debits its account atomically
func (s *LedgerService) DeleteIncome(ctx context.Context, companyID, incomeID uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		income, err := s.incomeRepo.FindByIDForCompany(txCtx, companyID, incomeID)
		if err != nil {
			return err
		}
		account, err := s.accountRepo.FindByIDForCompany(txCtx, companyID, income.AccountID)
		if err != nil {
			return err
		}

		if err := s.incomeRepo.DeleteForCompany(txCtx, companyID, incomeID); err != nil {
			return err
		}
		if err := account.Debit(income.Amount); err != nil {
			return err
		}
		return s.accountRepo.SaveWithLock(txCtx, account)
	})
}
