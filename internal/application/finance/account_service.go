// Package finance contains the application services for accounts,
// categories, ledger entries and recurring rules.
package finance

import (
	"context"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccountService manages a company's financial accounts
type AccountService struct {
	accountRepo finance.AccountRepository
	logger      *zap.Logger
}

// NewAccountService creates a new account service
func NewAccountService(accountRepo finance.AccountRepository, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Create adds a financial account to the company
func (s *AccountService) Create(ctx context.Context, companyID uuid.UUID, input CreateAccountInput) (*finance.Account, error) {
	account, err := finance.NewAccount(companyID, input.Name, input.Type, input.Currency, input.InitialBalance)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("Account created",
		zap.String("account_id", account.ID.String()),
		zap.String("company_id", companyID.String()))
	return account, nil
}

// Get returns one account of the company
func (s *AccountService) Get(ctx context.Context, companyID, accountID uuid.UUID) (*finance.Account, error) {
	return s.accountRepo.FindByIDForCompany(ctx, companyID, accountID)
}

// List returns the company's accounts
func (s *AccountService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Account, int64, error) {
	accounts, err := s.accountRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.accountRepo.CountForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// Rename changes an account's name
func (s *AccountService) Rename(ctx context.Context, companyID, accountID uuid.UUID, name string) (*finance.Account, error) {
	account, err := s.accountRepo.FindByIDForCompany(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Rename(name); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Deactivate marks an account inactive; its balance history remains
func (s *AccountService) Deactivate(ctx context.Context, companyID, accountID uuid.UUID) (*finance.Account, error) {
	account, err := s.accountRepo.FindByIDForCompany(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
