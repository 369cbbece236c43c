package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()
	issue := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)
	inv, err := NewInvoice(uuid.New(), uuid.New(), "inv-001", "eur", issue, due)
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("normalizes number and currency", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Equal(t, "INV-001", inv.Number)
		assert.Equal(t, "EUR", inv.Currency)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.Total.IsZero())
	})

	t.Run("rejects due date before issue date", func(t *testing.T) {
		issue := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
		_, err := NewInvoice(uuid.New(), uuid.New(), "INV-1", "EUR", issue, issue.AddDate(0, 0, -1))
		assert.Error(t, err)
	})

	t.Run("rejects missing client", func(t *testing.T) {
		issue := time.Now()
		_, err := NewInvoice(uuid.New(), uuid.Nil, "INV-1", "EUR", issue, issue)
		assert.Error(t, err)
	})
}

func TestInvoiceLineItems(t *testing.T) {
	inv := newTestInvoice(t)

	require.NoError(t, inv.AddLineItem("Consulting", decimal.NewFromInt(10), decimal.NewFromInt(100)))
	require.NoError(t, inv.AddLineItem("Hosting", decimal.NewFromInt(2), decimal.NewFromInt(50)))

	assert.True(t, inv.Subtotal.Equal(decimal.NewFromInt(1100)), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(1100)))

	require.NoError(t, inv.SetTaxRate(decimal.NewFromInt(20)))
	assert.True(t, inv.TaxAmount.Equal(decimal.NewFromInt(220)), "tax %s", inv.TaxAmount)
	assert.True(t, inv.Total.Equal(decimal.NewFromInt(1320)))

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		err := inv.AddLineItem("Bad", decimal.Zero, decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("locked once sent", func(t *testing.T) {
		require.NoError(t, inv.Send(time.Now()))
		assert.Error(t, inv.AddLineItem("Late", decimal.NewFromInt(1), decimal.NewFromInt(1)))
		assert.Error(t, inv.SetTaxRate(decimal.Zero))
	})
}

func TestInvoiceSend(t *testing.T) {
	t.Run("requires line items", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Error(t, inv.Send(time.Now()))
	})

	t.Run("draft to sent", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(500)))
		require.NoError(t, inv.Send(time.Now()))
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.NotNil(t, inv.SentAt)

		// Sending twice is invalid
		assert.Error(t, inv.Send(time.Now()))
	})
}

func TestInvoiceApplyPayment(t *testing.T) {
	newSent := func(t *testing.T) *Invoice {
		inv := newTestInvoice(t)
		require.NoError(t, inv.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(1000)))
		require.NoError(t, inv.Send(time.Now()))
		return inv
	}

	t.Run("partial then paid", func(t *testing.T) {
		inv := newSent(t)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(400), time.Now()))
		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assert.True(t, inv.OutstandingBalance().Equal(decimal.NewFromInt(600)))

		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(600), time.Now()))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.NotNil(t, inv.PaidAt)
		assert.True(t, inv.OutstandingBalance().IsZero())
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		inv := newSent(t)
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(1001), time.Now()))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		inv := newSent(t)
		assert.Error(t, inv.ApplyPayment(decimal.Zero, time.Now()))
	})

	t.Run("rejects payment on draft", func(t *testing.T) {
		inv := newTestInvoice(t)
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(1), time.Now()))
	})

	t.Run("rejects payment on paid invoice", func(t *testing.T) {
		inv := newSent(t)
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(1000), time.Now()))
		assert.Error(t, inv.ApplyPayment(decimal.NewFromInt(1), time.Now()))
	})

	t.Run("overdue invoice accepts payment", func(t *testing.T) {
		inv := newSent(t)
		require.NoError(t, inv.MarkOverdue(inv.DueDate.AddDate(0, 0, 1)))
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(1000), time.Now()))
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
	})
}

func TestInvoiceVoid(t *testing.T) {
	t.Run("draft can be voided", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Void())
		assert.Equal(t, InvoiceStatusVoid, inv.Status)
	})

	t.Run("paid cannot be voided", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(10)))
		require.NoError(t, inv.Send(time.Now()))
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(10), time.Now()))
		assert.Error(t, inv.Void())
	})

	t.Run("void is terminal", func(t *testing.T) {
		inv := newTestInvoice(t)
		require.NoError(t, inv.Void())
		assert.Error(t, inv.Void())
	})
}

func TestInvoiceMarkOverdue(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(10)))
	require.NoError(t, inv.Send(time.Now()))

	t.Run("not past due", func(t *testing.T) {
		assert.Error(t, inv.MarkOverdue(inv.DueDate))
	})

	t.Run("past due", func(t *testing.T) {
		require.NoError(t, inv.MarkOverdue(inv.DueDate.Add(time.Hour)))
		assert.Equal(t, InvoiceStatusOverdue, inv.Status)
	})
}

func TestInvoiceDaysOverdue(t *testing.T) {
	inv := newTestInvoice(t)

	assert.Equal(t, 0, inv.DaysOverdue(inv.DueDate))
	assert.Equal(t, 0, inv.DaysOverdue(inv.DueDate.Add(-time.Hour)))
	assert.Equal(t, 1, inv.DaysOverdue(inv.DueDate.AddDate(0, 0, 1)))
	assert.Equal(t, 45, inv.DaysOverdue(inv.DueDate.AddDate(0, 0, 45)))
}
