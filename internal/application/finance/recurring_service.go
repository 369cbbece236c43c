package finance

import (
	"context"
	"time"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecurringService manages recurring rules and processes due occurrences.
// Processing is triggered by an external scheduler hitting an endpoint,
// so two triggers can race; the idempotency store makes the second one a
// no-op per occurrence.
type RecurringService struct {
	recurringRepo finance.RecurringTransactionRepository
	expenseRepo   finance.ExpenseRepository
	incomeRepo    finance.IncomeRepository
	accountRepo   finance.AccountRepository
	txManager     shared.TxManager
	idempotency   shared.IdempotencyStore
	idemConfig    shared.IdempotencyConfig
	logger        *zap.Logger
}

// NewRecurringService creates a new recurring transaction service
func NewRecurringService(
	recurringRepo finance.RecurringTransactionRepository,
	expenseRepo finance.ExpenseRepository,
	incomeRepo finance.IncomeRepository,
	accountRepo finance.AccountRepository,
	txManager shared.TxManager,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *RecurringService {
	return &RecurringService{
		recurringRepo: recurringRepo,
		expenseRepo:   expenseRepo,
		incomeRepo:    incomeRepo,
		accountRepo:   accountRepo,
		txManager:     txManager,
		idempotency:   idempotency,
		idemConfig:    idemConfig,
		logger:        logger,
	}
}

// Create adds a recurring rule to the company
func (s *RecurringService) Create(ctx context.Context, companyID uuid.UUID, input CreateRecurringInput) (*finance.RecurringTransaction, error) {
	rule, err := finance.NewRecurringTransaction(companyID, input.CategoryID, input.AccountID,
		input.Kind, input.Frequency, input.Amount, input.Currency, input.FirstRunAt, input.Description)
	if err != nil {
		return nil, err
	}
	if input.VendorID != nil {
		rule.VendorID = input.VendorID
	}

	if err := s.recurringRepo.Save(ctx, rule); err != nil {
		return nil, err
	}

	s.logger.Info("Recurring rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("company_id", companyID.String()))
	return rule, nil
}

// Get returns one recurring rule of the company
func (s *RecurringService) Get(ctx context.Context, companyID, ruleID uuid.UUID) (*finance.RecurringTransaction, error) {
	return s.recurringRepo.FindByIDForCompany(ctx, companyID, ruleID)
}

// List returns the company's recurring rules
func (s *RecurringService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.RecurringTransaction, int64, error) {
	rules, err := s.recurringRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.recurringRepo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return rules, total, nil
}

// Deactivate stops a rule from firing
func (s *RecurringService) Deactivate(ctx context.Context, companyID, ruleID uuid.UUID) (*finance.RecurringTransaction, error) {
	rule, err := s.recurringRepo.FindByIDForCompany(ctx, companyID, ruleID)
	if err != nil {
		return nil, err
	}
	if err := rule.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.recurringRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	return rule, nil
}

// Delete removes a recurring rule
func (s *RecurringService) Delete(ctx context.Context, companyID, ruleID uuid.UUID) error {
	return s.recurringRepo.DeleteForCompany(ctx, companyID, ruleID)
}

// ProcessDue posts ledger entries for every rule of the company whose
// occurrence is due. The sweep is scoped to the caller's company so a
// trigger never touches another tenant's rules. Each occurrence is claimed
// in the idempotency store before posting, so a duplicate trigger for the
// same occurrence is counted as skipped and produces no second ledger
// entry; a failed posting releases its claim so the occurrence can be
// retried on the next trigger.
func (s *RecurringService) ProcessDue(ctx context.Context, companyID uuid.UUID, now time.Time, limit int) (*ProcessDueResult, error) {
	rules, err := s.recurringRepo.FindDueForCompany(ctx, companyID, now, limit)
	if err != nil {
		return nil, err
	}

	result := &ProcessDueResult{}
	for i := range rules {
		rule := &rules[i]
		if !rule.IsDue(now) {
			continue
		}

		key := rule.OccurrenceKey()
		claimed, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL)
		if err != nil {
			s.logger.Error("Idempotency claim failed",
				zap.Error(err), zap.String("occurrence", key))
			result.Failed++
			continue
		}
		if !claimed {
			s.logger.Info("Occurrence already processed, skipping",
				zap.String("occurrence", key))
			result.Skipped++
			continue
		}

		if err := s.processOccurrence(ctx, rule, now); err != nil {
			s.logger.Error("Failed to process recurring occurrence",
				zap.Error(err),
				zap.String("rule_id", rule.ID.String()),
				zap.String("occurrence", key))
			// The posting rolled back, so the claim must not outlive it
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.logger.Error("Failed to release occurrence claim",
					zap.Error(relErr), zap.String("occurrence", key))
			}
			result.Failed++
			continue
		}
		result.Processed++
	}

	s.logger.Info("Recurring processing run finished",
		zap.String("company_id", companyID.String()),
		zap.Int("processed", result.Processed),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

// processOccurrence posts the ledger entry, adjusts the account and
// advances the schedule in one transaction.
func (s *RecurringService) processOccurrence(ctx context.Context, rule *finance.RecurringTransaction, now time.Time) error {
	return s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindByIDForCompany(txCtx, rule.CompanyID, rule.AccountID)
		if err != nil {
			return err
		}

		switch rule.Kind {
		case finance.RecurringKindExpense:
			expense, err := finance.NewExpense(rule.CompanyID, rule.CategoryID, rule.AccountID,
				rule.Amount, rule.Currency, rule.NextRunAt, rule.Description)
			if err != nil {
				return err
			}
			if rule.VendorID != nil {
				expense.AttachVendor(*rule.VendorID)
			}
			expense.MarkRecurringSource(rule.ID)
			if err := s.expenseRepo.Save(txCtx, expense); err != nil {
				return err
			}
			if err := account.Debit(rule.Amount); err != nil {
				return err
			}

		case finance.RecurringKindIncome:
			income, err := finance.NewIncome(rule.CompanyID, rule.AccountID,
				rule.Amount, rule.Currency, rule.NextRunAt, rule.Description)
			if err != nil {
				return err
			}
			income.AttachCategory(rule.CategoryID)
			income.MarkRecurringSource(rule.ID)
			if err := s.incomeRepo.Save(txCtx, income); err != nil {
				return err
			}
			if err := account.Credit(rule.Amount); err != nil {
				return err
			}
		}

		if err := s.accountRepo.SaveWithLock(txCtx, account); err != nil {
			return err
		}

		rule.Advance(now)
		return s.recurringRepo.Save(txCtx, rule)
	})
}
