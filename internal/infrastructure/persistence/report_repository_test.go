package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/finvoice/backend/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportRepositoryOpenInvoices(t *testing.T) {
	db := openTestDB(t, &billing.Invoice{}, &billing.LineItem{})
	invoices := NewGormInvoiceRepository(db)
	reports := NewGormReportRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	issue := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seed := func(number string, amount int64, mutate func(inv *billing.Invoice)) {
		inv, err := billing.NewInvoice(companyID, uuid.New(), number, "EUR", issue, issue.AddDate(0, 0, 30))
		require.NoError(t, err)
		require.NoError(t, inv.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(amount)))
		if mutate != nil {
			mutate(inv)
		}
		require.NoError(t, invoices.Save(ctx, inv))
	}

	// Draft: not open, excluded
	seed("INV-1", 100, nil)
	// Sent: fully outstanding
	seed("INV-2", 200, func(inv *billing.Invoice) {
		require.NoError(t, inv.Send(issue))
	})
	// Partially paid: only the remainder counts
	seed("INV-3", 300, func(inv *billing.Invoice) {
		require.NoError(t, inv.Send(issue))
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(120), issue.AddDate(0, 0, 5)))
	})
	// Paid: closed, excluded
	seed("INV-4", 400, func(inv *billing.Invoice) {
		require.NoError(t, inv.Send(issue))
		require.NoError(t, inv.ApplyPayment(decimal.NewFromInt(400), issue.AddDate(0, 0, 5)))
	})

	rows, err := reports.OpenInvoices(ctx, companyID, nil, nil)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	outstanding := decimal.Zero
	for _, row := range rows {
		outstanding = outstanding.Add(row.Outstanding)
	}
	assert.True(t, outstanding.Equal(decimal.NewFromInt(380)), "outstanding %s", outstanding)

	t.Run("other company sees nothing", func(t *testing.T) {
		rows, err := reports.OpenInvoices(ctx, uuid.New(), nil, nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("issue date range filters", func(t *testing.T) {
		cutoff := issue.AddDate(0, 0, -1)
		rows, err := reports.OpenInvoices(ctx, companyID, nil, &cutoff)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func TestReportRepositoryInvoiceTotalsByStatus(t *testing.T) {
	db := openTestDB(t, &billing.Invoice{}, &billing.LineItem{})
	invoices := NewGormInvoiceRepository(db)
	reports := NewGormReportRepository(db)
	ctx := context.Background()
	companyID := uuid.New()

	issue := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	for i, amount := range []int64{100, 250} {
		inv, err := billing.NewInvoice(companyID, uuid.New(), "INV-"+string(rune('A'+i)), "EUR", issue, issue.AddDate(0, 0, 30))
		require.NoError(t, err)
		require.NoError(t, inv.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(amount)))
		require.NoError(t, invoices.Save(ctx, inv))
	}

	lines, err := reports.InvoiceTotalsByStatus(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, string(billing.InvoiceStatusDraft), lines[0].Status)
	assert.Equal(t, int64(2), lines[0].Count)
	assert.True(t, lines[0].Total.Equal(decimal.NewFromInt(350)))
}
