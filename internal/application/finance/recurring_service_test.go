package finance

import (
	"context"
	"testing"
	"time"

	"github.com/finvoice/backend/internal/domain/finance"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeRecurringRepo hands out fresh copies of its template rule so a second
// processing run sees the same occurrence, the way two racing scheduler
// triggers would.
type fakeRecurringRepo struct {
	template *finance.RecurringTransaction
	saved    []*finance.RecurringTransaction
}

func (f *fakeRecurringRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.RecurringTransaction, error) {
	if f.template != nil && f.template.ID == id && f.template.CompanyID == companyID {
		rule := *f.template
		return &rule, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRecurringRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.RecurringTransaction, error) {
	if f.template == nil {
		return nil, nil
	}
	return []finance.RecurringTransaction{*f.template}, nil
}

func (f *fakeRecurringRepo) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	if f.template == nil {
		return 0, nil
	}
	return 1, nil
}

func (f *fakeRecurringRepo) Save(ctx context.Context, rule *finance.RecurringTransaction) error {
	f.saved = append(f.saved, rule)
	return nil
}

func (f *fakeRecurringRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

func (f *fakeRecurringRepo) FindDueForCompany(ctx context.Context, companyID uuid.UUID, now time.Time, limit int) ([]finance.RecurringTransaction, error) {
	if f.template == nil || f.template.CompanyID != companyID || !f.template.IsDue(now) {
		return nil, nil
	}
	return []finance.RecurringTransaction{*f.template}, nil
}

type fakeExpenseRepo struct {
	saved []*finance.Expense
}

func (f *fakeExpenseRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Expense, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeExpenseRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Expense, error) {
	return nil, nil
}

func (f *fakeExpenseRepo) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	return 0, nil
}

func (f *fakeExpenseRepo) Save(ctx context.Context, expense *finance.Expense) error {
	f.saved = append(f.saved, expense)
	return nil
}

func (f *fakeExpenseRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

func (f *fakeExpenseRepo) FindByDateRange(ctx context.Context, companyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]finance.Expense, error) {
	return nil, nil
}

type fakeIncomeRepo struct {
	saved []*finance.Income
}

func (f *fakeIncomeRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Income, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeIncomeRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Income, error) {
	return nil, nil
}

func (f *fakeIncomeRepo) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	return 0, nil
}

func (f *fakeIncomeRepo) Save(ctx context.Context, income *finance.Income) error {
	f.saved = append(f.saved, income)
	return nil
}

func (f *fakeIncomeRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

func (f *fakeIncomeRepo) FindByDateRange(ctx context.Context, companyID uuid.UUID, from, to time.Time, filter shared.Filter) ([]finance.Income, error) {
	return nil, nil
}

type fakeAccountRepo struct {
	account *finance.Account
}

func (f *fakeAccountRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*finance.Account, error) {
	if f.account != nil && f.account.ID == id && f.account.CompanyID == companyID {
		return f.account, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeAccountRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]finance.Account, error) {
	return nil, nil
}

func (f *fakeAccountRepo) CountForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	return 0, nil
}

func (f *fakeAccountRepo) Save(ctx context.Context, account *finance.Account) error {
	return nil
}

func (f *fakeAccountRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

func (f *fakeAccountRepo) SaveWithLock(ctx context.Context, account *finance.Account) error {
	f.account = account
	return nil
}

type recurringFixture struct {
	service   *RecurringService
	companyID uuid.UUID
	recurring *fakeRecurringRepo
	expenses  *fakeExpenseRepo
	income    *fakeIncomeRepo
	accounts  *fakeAccountRepo
}

func newRecurringFixture(t *testing.T, kind finance.RecurringKind, firstRun time.Time, balance decimal.Decimal) *recurringFixture {
	t.Helper()

	companyID := uuid.New()
	account, err := finance.NewAccount(companyID, "Main", finance.AccountTypeBank, "EUR", balance)
	require.NoError(t, err)

	rule, err := finance.NewRecurringTransaction(companyID, uuid.New(), account.ID,
		kind, finance.FrequencyMonthly, decimal.NewFromInt(100), "EUR", firstRun, "Rent")
	require.NoError(t, err)

	f := &recurringFixture{
		companyID: companyID,
		recurring: &fakeRecurringRepo{template: rule},
		expenses:  &fakeExpenseRepo{},
		income:    &fakeIncomeRepo{},
		accounts:  &fakeAccountRepo{account: account},
	}
	f.service = NewRecurringService(f.recurring, f.expenses, f.income, f.accounts,
		passthroughTx{}, cache.NewInMemoryIdempotencyStore(), shared.DefaultIdempotencyConfig(), zap.NewNop())
	return f
}

func TestProcessDueExpense(t *testing.T) {
	firstRun := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f := newRecurringFixture(t, finance.RecurringKindExpense, firstRun, decimal.NewFromInt(500))

	result, err := f.service.ProcessDue(context.Background(), f.companyID, firstRun.Add(time.Hour), 100)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Zero(t, result.Skipped)
	assert.Zero(t, result.Failed)

	require.Len(t, f.expenses.saved, 1)
	assert.True(t, f.expenses.saved[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, f.accounts.account.CurrentBalance.Equal(decimal.NewFromInt(400)))

	// The rule's schedule advanced past the processed occurrence
	require.NotEmpty(t, f.recurring.saved)
	advanced := f.recurring.saved[len(f.recurring.saved)-1]
	assert.Equal(t, firstRun.AddDate(0, 1, 0), advanced.NextRunAt)
}

func TestProcessDueIncome(t *testing.T) {
	firstRun := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f := newRecurringFixture(t, finance.RecurringKindIncome, firstRun, decimal.NewFromInt(50))

	result, err := f.service.ProcessDue(context.Background(), f.companyID, firstRun, 100)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, f.income.saved, 1)
	assert.True(t, f.accounts.account.CurrentBalance.Equal(decimal.NewFromInt(150)))
}

func TestProcessDueDuplicateTriggerIsSkipped(t *testing.T) {
	firstRun := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f := newRecurringFixture(t, finance.RecurringKindExpense, firstRun, decimal.NewFromInt(500))
	now := firstRun.Add(time.Hour)

	first, err := f.service.ProcessDue(context.Background(), f.companyID, now, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Processed)

	// The fake repo hands back the same unadvanced occurrence, as if a
	// second scheduler trigger raced the first.
	second, err := f.service.ProcessDue(context.Background(), f.companyID, now, 100)
	require.NoError(t, err)
	assert.Zero(t, second.Processed)
	assert.Equal(t, 1, second.Skipped)

	assert.Len(t, f.expenses.saved, 1)
	assert.True(t, f.accounts.account.CurrentBalance.Equal(decimal.NewFromInt(400)))
}

func TestProcessDueInsufficientBalance(t *testing.T) {
	firstRun := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f := newRecurringFixture(t, finance.RecurringKindExpense, firstRun, decimal.NewFromInt(10))

	result, err := f.service.ProcessDue(context.Background(), f.companyID, firstRun, 100)
	require.NoError(t, err)

	assert.Zero(t, result.Processed)
	assert.Equal(t, 1, result.Failed)
}

func TestProcessDueScopedToCompany(t *testing.T) {
	firstRun := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f := newRecurringFixture(t, finance.RecurringKindExpense, firstRun, decimal.NewFromInt(500))

	// A trigger from another tenant must not sweep this company's rules
	result, err := f.service.ProcessDue(context.Background(), uuid.New(), firstRun.Add(time.Hour), 100)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, f.expenses.saved)

	result, err = f.service.ProcessDue(context.Background(), f.companyID, firstRun.Add(time.Hour), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
}

func TestProcessDueFailedOccurrenceCanRetry(t *testing.T) {
	firstRun := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f := newRecurringFixture(t, finance.RecurringKindExpense, firstRun, decimal.NewFromInt(10))

	result, err := f.service.ProcessDue(context.Background(), f.companyID, firstRun, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	// The failed posting rolled back, so its claim must not block the next
	// trigger once the account can cover the amount
	require.NoError(t, f.accounts.account.Credit(decimal.NewFromInt(500)))

	result, err = f.service.ProcessDue(context.Background(), f.companyID, firstRun, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Zero(t, result.Skipped)
	require.Len(t, f.expenses.saved, 1)
}

func TestProcessDueNothingDue(t *testing.T) {
	firstRun := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	f := newRecurringFixture(t, finance.RecurringKindExpense, firstRun, decimal.NewFromInt(500))

	result, err := f.service.ProcessDue(context.Background(), f.companyID, firstRun.Add(-time.Hour), 100)
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, f.expenses.saved)
}
