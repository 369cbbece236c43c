// Package integration exercises the persistence layer against a real
// postgres instance with the production migrations applied. Requires a
// local Docker daemon; skipped in -short mode.
package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/finvoice/backend/internal/domain/billing"
	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/partner"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/migration"
	"github.com/finvoice/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("finvoice_test"),
		tcpostgres.WithUsername("finvoice"),
		tcpostgres.WithPassword("finvoice"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	migrator, err := migration.New(sqlDB, "../../migrations", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, migrator.Up())
	require.NoError(t, migrator.Close())

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func createCompany(t *testing.T, db *gorm.DB) *identity.Company {
	t.Helper()
	company, err := identity.NewCompany("Acme GmbH", "EUR")
	require.NoError(t, err)
	repo := persistence.NewGormCompanyRepository(db)
	require.NoError(t, repo.Save(context.Background(), company))
	return company
}

func TestUserLifecycleAgainstPostgres(t *testing.T) {
	db := setupPostgres(t)
	company := createCompany(t, db)
	repo := persistence.NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser(company.ID, "owner@acme.test", "Owner", "hash", identity.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	t.Run("duplicate email conflicts", func(t *testing.T) {
		dup, err := identity.NewUser(company.ID, "owner@acme.test", "Other", "hash", identity.RoleMember)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("soft delete excludes from listings", func(t *testing.T) {
		require.NoError(t, user.SoftDelete())
		require.NoError(t, repo.Save(ctx, user))

		users, err := repo.FindActiveForCompany(ctx, company.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, users)

		// Historical references still resolve by ID
		found, err := repo.FindByIDForCompany(ctx, company.ID, user.ID)
		require.NoError(t, err)
		assert.True(t, found.Deleted)
	})
}

func createClient(t *testing.T, db *gorm.DB, companyID uuid.UUID) *partner.Client {
	t.Helper()
	client, err := partner.NewClient(companyID, "CL-001", "Globex Corp")
	require.NoError(t, err)
	repo := persistence.NewGormClientRepository(db)
	require.NoError(t, repo.Save(context.Background(), client))
	return client
}

func TestInvoicePaymentFlowAgainstPostgres(t *testing.T) {
	db := setupPostgres(t)
	company := createCompany(t, db)
	client := createClient(t, db, company.ID)
	invoices := persistence.NewGormInvoiceRepository(db)
	reports := persistence.NewGormReportRepository(db)
	ctx := context.Background()

	issue := time.Now().UTC().Truncate(24 * time.Hour)
	invoice, err := billing.NewInvoice(company.ID, client.ID, "INV-1000", "EUR", issue, issue.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.NoError(t, invoice.AddLineItem("Consulting", decimal.NewFromInt(10), decimal.NewFromInt(150)))
	require.NoError(t, invoice.Send(issue))
	require.NoError(t, invoices.Save(ctx, invoice))

	t.Run("partial payment persists", func(t *testing.T) {
		loaded, err := invoices.FindByIDForCompany(ctx, company.ID, invoice.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.ApplyPayment(decimal.NewFromInt(500), time.Now()))
		require.NoError(t, invoices.SaveWithLock(ctx, loaded))

		reloaded, err := invoices.FindByIDForCompany(ctx, company.ID, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, billing.InvoiceStatusPartial, reloaded.Status)
		assert.True(t, reloaded.OutstandingBalance().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("open invoice projection reflects the remainder", func(t *testing.T) {
		rows, err := reports.OpenInvoices(ctx, company.ID, nil, nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.True(t, rows[0].Outstanding.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("stale writer loses", func(t *testing.T) {
		first, err := invoices.FindByIDForCompany(ctx, company.ID, invoice.ID)
		require.NoError(t, err)
		second, err := invoices.FindByIDForCompany(ctx, company.ID, invoice.ID)
		require.NoError(t, err)

		require.NoError(t, first.ApplyPayment(decimal.NewFromInt(100), time.Now()))
		require.NoError(t, invoices.SaveWithLock(ctx, first))

		require.NoError(t, second.ApplyPayment(decimal.NewFromInt(100), time.Now()))
		assert.ErrorIs(t, invoices.SaveWithLock(ctx, second), shared.ErrConcurrencyConflict)
	})
}
