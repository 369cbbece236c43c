package finance

import (
	"fmt"
	"testing"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(t *testing.T, frequency RecurringFrequency, firstRun time.Time) *RecurringTransaction {
	t.Helper()
	rule, err := NewRecurringTransaction(uuid.New(), uuid.New(), uuid.New(),
		RecurringKindExpense, frequency, decimal.NewFromInt(50), "eur", firstRun, "Office rent")
	require.NoError(t, err)
	return rule
}

func TestNewRecurringTransaction(t *testing.T) {
	firstRun := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid rule", func(t *testing.T) {
		rule := newTestRule(t, FrequencyMonthly, firstRun)
		assert.Equal(t, "EUR", rule.Currency)
		assert.True(t, rule.Active)
		assert.Equal(t, firstRun, rule.NextRunAt)
		assert.Nil(t, rule.LastRunAt)
	})

	t.Run("rejects invalid kind", func(t *testing.T) {
		_, err := NewRecurringTransaction(uuid.New(), uuid.New(), uuid.New(),
			RecurringKind("subscription"), FrequencyMonthly, decimal.NewFromInt(1), "EUR", firstRun, "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid frequency", func(t *testing.T) {
		_, err := NewRecurringTransaction(uuid.New(), uuid.New(), uuid.New(),
			RecurringKindExpense, RecurringFrequency("fortnightly"), decimal.NewFromInt(1), "EUR", firstRun, "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewRecurringTransaction(uuid.New(), uuid.New(), uuid.New(),
			RecurringKindExpense, FrequencyMonthly, decimal.Zero, "EUR", firstRun, "")
		assert.Error(t, err)
	})

	t.Run("rejects missing account", func(t *testing.T) {
		_, err := NewRecurringTransaction(uuid.New(), uuid.New(), uuid.Nil,
			RecurringKindExpense, FrequencyMonthly, decimal.NewFromInt(1), "EUR", firstRun, "")
		assert.Error(t, err)
	})
}

func TestRecurringFrequencyNext(t *testing.T) {
	from := time.Date(2025, 1, 31, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, from.AddDate(0, 0, 1), FrequencyDaily.Next(from))
	assert.Equal(t, from.AddDate(0, 0, 7), FrequencyWeekly.Next(from))
	assert.Equal(t, from.AddDate(0, 1, 0), FrequencyMonthly.Next(from))
	assert.Equal(t, from.AddDate(1, 0, 0), FrequencyYearly.Next(from))
}

func TestRecurringTransactionIsDue(t *testing.T) {
	firstRun := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rule := newTestRule(t, FrequencyMonthly, firstRun)

	assert.False(t, rule.IsDue(firstRun.Add(-time.Second)))
	assert.True(t, rule.IsDue(firstRun))
	assert.True(t, rule.IsDue(firstRun.AddDate(0, 0, 5)))

	require.NoError(t, rule.Deactivate())
	assert.False(t, rule.IsDue(firstRun.AddDate(0, 0, 5)))
}

func TestRecurringTransactionOccurrenceKey(t *testing.T) {
	firstRun := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rule := newTestRule(t, FrequencyMonthly, firstRun)

	want := fmt.Sprintf("%s:2025-03-01T00:00:00Z", rule.ID)
	assert.Equal(t, want, rule.OccurrenceKey())

	// Advancing the schedule changes the key; re-triggering the same
	// occurrence does not.
	before := rule.OccurrenceKey()
	assert.Equal(t, before, rule.OccurrenceKey())
	rule.Advance(firstRun)
	assert.NotEqual(t, before, rule.OccurrenceKey())
}

func TestRecurringTransactionAdvance(t *testing.T) {
	firstRun := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rule := newTestRule(t, FrequencyWeekly, firstRun)

	ranAt := firstRun.Add(2 * time.Hour)
	rule.Advance(ranAt)

	require.NotNil(t, rule.LastRunAt)
	assert.Equal(t, ranAt, *rule.LastRunAt)
	assert.Equal(t, firstRun.AddDate(0, 0, 7), rule.NextRunAt)
}

func TestRecurringTransactionDeactivate(t *testing.T) {
	rule := newTestRule(t, FrequencyDaily, time.Now().UTC())

	require.NoError(t, rule.Deactivate())
	assert.False(t, rule.Active)
	assert.ErrorIs(t, rule.Deactivate(), shared.ErrInvalidState)
}
