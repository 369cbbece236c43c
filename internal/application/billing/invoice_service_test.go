package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/finvoice/backend/internal/domain/billing"
	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type paymentFixture struct {
	service  *InvoiceService
	invoices *persistence.GormInvoiceRepository
	accounts *persistence.GormAccountRepository
	income   *persistence.GormIncomeRepository

	companyID uuid.UUID
	invoice   *billing.Invoice
	account   *finance.Account
}

// newPaymentFixture wires the service to sqlite-backed repositories and a
// real transaction manager, so rollback behavior is exercised for real.
func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&billing.Invoice{}, &billing.LineItem{},
		&finance.Account{}, &finance.Income{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &paymentFixture{
		invoices:  persistence.NewGormInvoiceRepository(db),
		accounts:  persistence.NewGormAccountRepository(db),
		income:    persistence.NewGormIncomeRepository(db),
		companyID: uuid.New(),
	}
	f.service = NewInvoiceService(f.invoices, nil, f.accounts, f.income, nil,
		persistence.NewGormTxManager(db), nil, nil, zap.NewNop())

	ctx := context.Background()

	account, err := finance.NewAccount(f.companyID, "Main", finance.AccountTypeBank, "EUR", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, f.accounts.Save(ctx, account))
	f.account = account

	issue := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	invoice, err := billing.NewInvoice(f.companyID, uuid.New(), "INV-1", "EUR", issue, issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, invoice.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(1000)))
	require.NoError(t, invoice.Send(issue))
	require.NoError(t, f.invoices.Save(ctx, invoice))
	f.invoice = invoice

	return f
}

func TestRecordPayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	updated, err := f.service.RecordPayment(ctx, f.companyID, f.invoice.ID, RecordPaymentInput{
		AccountID: f.account.ID,
		Amount:    decimal.NewFromInt(400),
		Date:      time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusPartial, updated.Status)

	// Account was credited in the same transaction
	account, err := f.accounts.FindByIDForCompany(ctx, f.companyID, f.account.ID)
	require.NoError(t, err)
	assert.True(t, account.CurrentBalance.Equal(decimal.NewFromInt(400)))

	// An income row links back to the invoice
	incomes, err := f.income.FindAllForCompany(ctx, f.companyID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	require.NotNil(t, incomes[0].InvoiceID)
	assert.Equal(t, f.invoice.ID, *incomes[0].InvoiceID)
}

func TestRecordPaymentRollsBackOnOverpayment(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.service.RecordPayment(ctx, f.companyID, f.invoice.ID, RecordPaymentInput{
		AccountID: f.account.ID,
		Amount:    decimal.NewFromInt(2000),
	})
	require.Error(t, err)

	// Nothing was written: no income row, no balance change, invoice untouched
	incomes, err := f.income.FindAllForCompany(ctx, f.companyID, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, incomes)

	account, err := f.accounts.FindByIDForCompany(ctx, f.companyID, f.account.ID)
	require.NoError(t, err)
	assert.True(t, account.CurrentBalance.IsZero())

	invoice, err := f.invoices.FindByIDForCompany(ctx, f.companyID, f.invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusSent, invoice.Status)
	assert.True(t, invoice.PaidAmount.IsZero())
}

func TestRecordPaymentUnknownAccount(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.service.RecordPayment(context.Background(), f.companyID, f.invoice.ID, RecordPaymentInput{
		AccountID: uuid.New(),
		Amount:    decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMarkOverdueSweepsAllPages(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	issue := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)
	addSent := func(number string, dueDate time.Time) {
		inv, err := billing.NewInvoice(f.companyID, uuid.New(), number, "EUR", issue, dueDate)
		require.NoError(t, err)
		require.NoError(t, inv.AddLineItem("Work", decimal.NewFromInt(1), decimal.NewFromInt(100)))
		require.NoError(t, inv.Send(issue))
		require.NoError(t, f.invoices.Save(ctx, inv))
	}

	// The fixture invoice plus these exceed one page of the sweep query
	for i := 0; i < 249; i++ {
		addSent(fmt.Sprintf("INV-%04d", i+2), due)
	}
	// Not yet due, must survive the sweep untouched
	addSent("INV-KEEP-1", due.AddDate(0, 2, 0))
	addSent("INV-KEEP-2", due.AddDate(0, 2, 0))

	marked, err := f.service.MarkOverdue(ctx, f.companyID, due.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 250, marked)

	filter := shared.DefaultFilter()
	filter.Filters["status"] = string(billing.InvoiceStatusSent)
	remaining, err := f.invoices.CountForCompany(ctx, f.companyID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), remaining)
}

func TestRecordPaymentTenantMismatch(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.service.RecordPayment(context.Background(), uuid.New(), f.invoice.ID, RecordPaymentInput{
		AccountID: f.account.ID,
		Amount:    decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
