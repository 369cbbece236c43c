package persistence

import (
	"context"
	"testing"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture(t *testing.T) *GormUserRepository {
	t.Helper()
	db := openTestDB(t, &identity.User{})
	// Mirrors the production migration constraint
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX idx_users_company_email ON users (company_id, email)").Error)
	return NewGormUserRepository(db)
}

func mustCreateUser(t *testing.T, repo *GormUserRepository, companyID uuid.UUID, email string) *identity.User {
	t.Helper()
	user, err := identity.NewUser(companyID, email, "Test User", "hash", identity.RoleMember)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestUserRepositoryTenantScoping(t *testing.T) {
	repo := newUserFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	user := mustCreateUser(t, repo, companyID, "alice@example.com")

	t.Run("own company resolves", func(t *testing.T) {
		found, err := repo.FindByIDForCompany(ctx, companyID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("other company reads as not found", func(t *testing.T) {
		_, err := repo.FindByIDForCompany(ctx, uuid.New(), user.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("email lookup is company scoped", func(t *testing.T) {
		_, err := repo.FindByEmailForCompany(ctx, uuid.New(), "alice@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestUserRepositorySoftDelete(t *testing.T) {
	repo := newUserFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	alice := mustCreateUser(t, repo, companyID, "alice@example.com")
	mustCreateUser(t, repo, companyID, "bob@example.com")

	require.NoError(t, alice.SoftDelete())
	require.NoError(t, repo.Save(ctx, alice))

	t.Run("excluded from listings", func(t *testing.T) {
		users, err := repo.FindActiveForCompany(ctx, companyID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob@example.com", users[0].Email)

		count, err := repo.CountActiveForCompany(ctx, companyID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("excluded from login resolution", func(t *testing.T) {
		users, err := repo.FindAllByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Empty(t, users)
	})

	t.Run("id lookup still resolves for history", func(t *testing.T) {
		found, err := repo.FindByIDForCompany(ctx, companyID, alice.ID)
		require.NoError(t, err)
		assert.True(t, found.Deleted)
	})
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := newUserFixture(t)
	companyID := uuid.New()
	mustCreateUser(t, repo, companyID, "alice@example.com")

	dup, err := identity.NewUser(companyID, "alice@example.com", "Other", "hash", identity.RoleMember)
	require.NoError(t, err)
	err = repo.Save(context.Background(), dup)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	// Same email in a different company is fine
	other, err := identity.NewUser(uuid.New(), "alice@example.com", "Other", "hash", identity.RoleMember)
	require.NoError(t, err)
	assert.NoError(t, repo.Save(context.Background(), other))
}

func TestUserRepositoryLoginResolutionAcrossCompanies(t *testing.T) {
	repo := newUserFixture(t)
	ctx := context.Background()
	first := mustCreateUser(t, repo, uuid.New(), "alice@example.com")
	second := mustCreateUser(t, repo, uuid.New(), "alice@example.com")

	// The address names one account per company; login resolution must
	// surface all of them, not an arbitrary first row
	users, err := repo.FindAllByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.ElementsMatch(t,
		[]uuid.UUID{first.CompanyID, second.CompanyID},
		[]uuid.UUID{users[0].CompanyID, users[1].CompanyID})
}

func TestUserRepositorySearch(t *testing.T) {
	repo := newUserFixture(t)
	ctx := context.Background()
	companyID := uuid.New()
	mustCreateUser(t, repo, companyID, "alice@example.com")
	mustCreateUser(t, repo, companyID, "bob@example.com")

	filter := shared.DefaultFilter()
	filter.Search = "alice"
	users, err := repo.FindActiveForCompany(ctx, companyID, filter)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "alice@example.com", users[0].Email)
}
