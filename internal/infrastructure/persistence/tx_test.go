package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockedTxManager(t *testing.T) (*GormTxManager, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewGormTxManager(db), mock
}

func TestTxManagerCommit(t *testing.T) {
	manager, mock := newMockedTxManager(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := manager.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return dbFromContext(ctx, nil).Exec("UPDATE accounts SET version = version").Error
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerRollbackOnError(t *testing.T) {
	manager, mock := newMockedTxManager(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("boom")
	err := manager.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerNestedCallsJoin(t *testing.T) {
	manager, mock := newMockedTxManager(t)

	// A single begin/commit pair: the inner call joins the outer transaction
	mock.ExpectBegin()
	mock.ExpectCommit()

	err := manager.WithinTransaction(context.Background(), func(outer context.Context) error {
		return manager.WithinTransaction(outer, func(inner context.Context) error {
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxManagerRollsBackCompoundWrites(t *testing.T) {
	db := openTestDB(t, &finance.Account{})
	manager := NewGormTxManager(db)
	repo := NewGormAccountRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	account, err := finance.NewAccount(companyID, "Main", finance.AccountTypeBank, "EUR", decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, account))

	failure := errors.New("downstream failure")
	err = manager.WithinTransaction(ctx, func(txCtx context.Context) error {
		acc, err := repo.FindByIDForCompany(txCtx, companyID, account.ID)
		if err != nil {
			return err
		}
		if err := acc.Debit(decimal.NewFromInt(500)); err != nil {
			return err
		}
		if err := repo.SaveWithLock(txCtx, acc); err != nil {
			return err
		}
		return failure
	})
	assert.ErrorIs(t, err, failure)

	// The balance write rolled back with the failed transaction
	reloaded, err := repo.FindByIDForCompany(ctx, companyID, account.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentBalance.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, reloaded.Version)
}
