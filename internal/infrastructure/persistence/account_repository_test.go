package persistence

import (
	"context"
	"testing"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountFixture(t *testing.T) *GormAccountRepository {
	t.Helper()
	return NewGormAccountRepository(openTestDB(t, &finance.Account{}))
}

func mustCreateAccount(t *testing.T, repo *GormAccountRepository, companyID uuid.UUID) *finance.Account {
	t.Helper()
	account, err := finance.NewAccount(companyID, "Main", finance.AccountTypeBank, "EUR", decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), account))
	return account
}

func TestAccountRepositoryTenantScoping(t *testing.T) {
	repo := newAccountFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	account := mustCreateAccount(t, repo, companyID)

	found, err := repo.FindByIDForCompany(ctx, companyID, account.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = repo.FindByIDForCompany(ctx, uuid.New(), account.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAccountRepositorySaveWithLock(t *testing.T) {
	repo := newAccountFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	account := mustCreateAccount(t, repo, companyID)

	t.Run("current version wins", func(t *testing.T) {
		current, err := repo.FindByIDForCompany(ctx, companyID, account.ID)
		require.NoError(t, err)
		require.NoError(t, current.Debit(decimal.NewFromInt(100)))
		require.NoError(t, repo.SaveWithLock(ctx, current))

		reloaded, err := repo.FindByIDForCompany(ctx, companyID, account.ID)
		require.NoError(t, err)
		assert.True(t, reloaded.CurrentBalance.Equal(decimal.NewFromInt(900)))
		assert.Equal(t, 2, reloaded.Version)
	})

	t.Run("stale version loses", func(t *testing.T) {
		// Read the same version twice, as two concurrent writers would
		first, err := repo.FindByIDForCompany(ctx, companyID, account.ID)
		require.NoError(t, err)
		second, err := repo.FindByIDForCompany(ctx, companyID, account.ID)
		require.NoError(t, err)

		require.NoError(t, first.Debit(decimal.NewFromInt(50)))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.Debit(decimal.NewFromInt(50)))
		err = repo.SaveWithLock(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestAccountRepositoryDelete(t *testing.T) {
	repo := newAccountFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	account := mustCreateAccount(t, repo, companyID)

	t.Run("other company cannot delete", func(t *testing.T) {
		err := repo.DeleteForCompany(ctx, uuid.New(), account.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, repo.DeleteForCompany(ctx, companyID, account.ID))
		_, err := repo.FindByIDForCompany(ctx, companyID, account.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
