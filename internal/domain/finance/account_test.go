package finance

import (
	"testing"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("valid account", func(t *testing.T) {
		acc, err := NewAccount(uuid.New(), "Main", AccountTypeBank, "usd", decimal.NewFromInt(500))
		require.NoError(t, err)
		assert.Equal(t, "USD", acc.Currency)
		assert.True(t, acc.CurrentBalance.Equal(acc.InitialBalance))
		assert.True(t, acc.Active)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := NewAccount(uuid.New(), " ", AccountTypeBank, "USD", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewAccount(uuid.New(), "Main", AccountType("savings"), "USD", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects bad currency", func(t *testing.T) {
		_, err := NewAccount(uuid.New(), "Main", AccountTypeBank, "EURO", decimal.Zero)
		assert.Error(t, err)
	})
}

func TestAccountCredit(t *testing.T) {
	acc, err := NewAccount(uuid.New(), "Main", AccountTypeBank, "USD", decimal.NewFromInt(100))
	require.NoError(t, err)

	require.NoError(t, acc.Credit(decimal.NewFromInt(50)))
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(150)))

	assert.Error(t, acc.Credit(decimal.Zero))
	assert.Error(t, acc.Credit(decimal.NewFromInt(-5)))
}

func TestAccountDebit(t *testing.T) {
	t.Run("bank account cannot go negative", func(t *testing.T) {
		acc, err := NewAccount(uuid.New(), "Main", AccountTypeBank, "USD", decimal.NewFromInt(100))
		require.NoError(t, err)

		require.NoError(t, acc.Debit(decimal.NewFromInt(100)))
		assert.True(t, acc.CurrentBalance.IsZero())

		err = acc.Debit(decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrInsufficientBalance)
	})

	t.Run("credit account may go negative", func(t *testing.T) {
		acc, err := NewAccount(uuid.New(), "Card", AccountTypeCredit, "USD", decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, acc.Debit(decimal.NewFromInt(250)))
		assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(-250)))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		acc, err := NewAccount(uuid.New(), "Main", AccountTypeBank, "USD", decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.Error(t, acc.Debit(decimal.Zero))
	})
}

func TestAccountDeactivate(t *testing.T) {
	acc, err := NewAccount(uuid.New(), "Main", AccountTypeCash, "USD", decimal.NewFromInt(10))
	require.NoError(t, err)

	require.NoError(t, acc.Deactivate())
	assert.False(t, acc.Active)
	assert.True(t, acc.CurrentBalance.Equal(decimal.NewFromInt(10)))
	assert.ErrorIs(t, acc.Deactivate(), shared.ErrInvalidState)
}
