package identity

import (
	"context"
	"testing"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/auth"
	"github.com/finvoice/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompanyRepo struct {
	companies map[uuid.UUID]*identity.Company
}

func newFakeCompanyRepo() *fakeCompanyRepo {
	return &fakeCompanyRepo{companies: map[uuid.UUID]*identity.Company{}}
}

func (f *fakeCompanyRepo) FindByID(ctx context.Context, id uuid.UUID) (*identity.Company, error) {
	if company, ok := f.companies[id]; ok {
		return company, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCompanyRepo) Save(ctx context.Context, company *identity.Company) error {
	f.companies[company.ID] = company
	return nil
}

type stubTxManager struct{}

func (stubTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type authFixture struct {
	service   *AuthService
	users     *fakeUserRepo
	companies *fakeCompanyRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{users: newFakeUserRepo(), companies: newFakeCompanyRepo()}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		AccessSecret:  "test-access-secret-test-access-secret",
		RefreshSecret: "test-refresh-secret-test-refresh-secret",
		Issuer:        "test",
	})
	f.service = NewAuthService(f.users, f.companies, jwtService,
		cache.NewInMemoryTokenBlacklist(), stubTxManager{},
		AuthServiceConfig{SignupEnabled: true}, zap.NewNop())
	return f
}

func (f *authFixture) addUser(t *testing.T, email, password string) *identity.User {
	t.Helper()
	ctx := context.Background()
	company, err := identity.NewCompany("Company "+uuid.NewString()[:8], "USD")
	require.NoError(t, err)
	require.NoError(t, f.companies.Save(ctx, company))

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user, err := identity.NewUser(company.ID, email, "Test User", hash, identity.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, f.users.Save(ctx, user))
	return user
}

func assertInvalidCredentials(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_CREDENTIALS", de.Code)
}

func TestLoginSameEmailAcrossCompanies(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	// Email is unique per company only, so the same address can name one
	// account in each company. The password must pick the right one.
	first := f.addUser(t, "dana@example.com", "first-password")
	second := f.addUser(t, "dana@example.com", "second-password")
	require.NotEqual(t, first.CompanyID, second.CompanyID)

	t.Run("password selects the matching account", func(t *testing.T) {
		result, err := f.service.Login(ctx, LoginInput{Email: "dana@example.com", Password: "first-password"})
		require.NoError(t, err)
		assert.Equal(t, first.ID, result.User.ID)
		assert.Equal(t, first.CompanyID, result.User.CompanyID)

		result, err = f.service.Login(ctx, LoginInput{Email: "dana@example.com", Password: "second-password"})
		require.NoError(t, err)
		assert.Equal(t, second.ID, result.User.ID)
		assert.Equal(t, second.CompanyID, result.User.CompanyID)
	})

	t.Run("wrong password matches no account", func(t *testing.T) {
		_, err := f.service.Login(ctx, LoginInput{Email: "dana@example.com", Password: "no-such-password"})
		assertInvalidCredentials(t, err)
	})

	t.Run("deleted account does not shadow the other company", func(t *testing.T) {
		require.NoError(t, first.SoftDelete())
		require.NoError(t, f.users.Save(ctx, first))

		_, err := f.service.Login(ctx, LoginInput{Email: "dana@example.com", Password: "first-password"})
		assertInvalidCredentials(t, err)

		result, err := f.service.Login(ctx, LoginInput{Email: "dana@example.com", Password: "second-password"})
		require.NoError(t, err)
		assert.Equal(t, second.ID, result.User.ID)
	})
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.service.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever-password"})
	assertInvalidCredentials(t, err)
}
