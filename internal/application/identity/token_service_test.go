package identity

import (
	"context"
	"testing"
	"time"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTokenRepo struct {
	byPrefix map[string]*identity.APIToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byPrefix: map[string]*identity.APIToken{}}
}

func (f *fakeTokenRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.APIToken, error) {
	for _, token := range f.byPrefix {
		if token.ID == id && token.CompanyID == companyID {
			return token, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeTokenRepo) FindByPrefix(ctx context.Context, prefix string) (*identity.APIToken, error) {
	if token, ok := f.byPrefix[prefix]; ok {
		return token, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeTokenRepo) FindAllForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.APIToken, error) {
	var tokens []identity.APIToken
	for _, token := range f.byPrefix {
		if token.CompanyID == companyID {
			tokens = append(tokens, *token)
		}
	}
	return tokens, nil
}

func (f *fakeTokenRepo) Save(ctx context.Context, token *identity.APIToken) error {
	f.byPrefix[token.Prefix] = token
	return nil
}

func (f *fakeTokenRepo) DeleteForCompany(ctx context.Context, companyID, id uuid.UUID) error {
	for prefix, token := range f.byPrefix {
		if token.ID == id && token.CompanyID == companyID {
			delete(f.byPrefix, prefix)
			return nil
		}
	}
	return shared.ErrNotFound
}

type fakeUserRepo struct {
	users map[uuid.UUID]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*identity.User{}}
}

func (f *fakeUserRepo) FindByIDForCompany(ctx context.Context, companyID, id uuid.UUID) (*identity.User, error) {
	if user, ok := f.users[id]; ok && user.CompanyID == companyID {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeUserRepo) FindByEmailForCompany(ctx context.Context, companyID uuid.UUID, email string) (*identity.User, error) {
	for _, user := range f.users {
		if user.CompanyID == companyID && user.Email == email && !user.Deleted {
			return user, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeUserRepo) FindAllByEmail(ctx context.Context, email string) ([]identity.User, error) {
	var users []identity.User
	for _, user := range f.users {
		if user.Email == email && !user.Deleted {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) FindActiveForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	var users []identity.User
	for _, user := range f.users {
		if user.CompanyID == companyID && !user.Deleted {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserRepo) CountActiveForCompany(ctx context.Context, companyID uuid.UUID, filter shared.Filter) (int64, error) {
	users, _ := f.FindActiveForCompany(ctx, companyID, filter)
	return int64(len(users)), nil
}

func (f *fakeUserRepo) ExistsByEmailForCompany(ctx context.Context, companyID uuid.UUID, email string) (bool, error) {
	_, err := f.FindByEmailForCompany(ctx, companyID, email)
	return err == nil, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, user *identity.User) error {
	f.users[user.ID] = user
	return nil
}

type tokenFixture struct {
	service *TokenService
	tokens  *fakeTokenRepo
	users   *fakeUserRepo
	user    *identity.User
}

func newTokenFixture(t *testing.T) *tokenFixture {
	t.Helper()
	user, err := identity.NewUser(uuid.New(), "api@example.com", "API User", "hash", identity.RoleMember)
	require.NoError(t, err)

	f := &tokenFixture{tokens: newFakeTokenRepo(), users: newFakeUserRepo(), user: user}
	require.NoError(t, f.users.Save(context.Background(), user))
	f.service = NewTokenService(f.tokens, f.users, zap.NewNop())
	return f
}

func (f *tokenFixture) issue(t *testing.T, expiresAt *time.Time) *IssueTokenResult {
	t.Helper()
	result, err := f.service.Issue(context.Background(), f.user.CompanyID, f.user.ID,
		IssueTokenInput{Name: "ci", ExpiresAt: expiresAt})
	require.NoError(t, err)
	return result
}

func assertInvalidToken(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_TOKEN", de.Code)
}

func TestTokenServiceIssue(t *testing.T) {
	f := newTokenFixture(t)
	result := f.issue(t, nil)

	assert.NotEmpty(t, result.Token)
	assert.Contains(t, result.Token, result.Prefix+".")

	// The stored record carries only the prefix and a hash
	stored, err := f.tokens.FindByPrefix(context.Background(), result.Prefix)
	require.NoError(t, err)
	assert.NotContains(t, result.Token, stored.SecretHash)
	assert.NotEmpty(t, stored.SecretHash)
}

func TestTokenServiceAuthenticate(t *testing.T) {
	f := newTokenFixture(t)
	result := f.issue(t, nil)
	ctx := context.Background()

	t.Run("valid token resolves user", func(t *testing.T) {
		user, token, err := f.service.Authenticate(ctx, result.Token)
		require.NoError(t, err)
		assert.Equal(t, f.user.ID, user.ID)
		assert.NotNil(t, token.LastUsedAt)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, _, err := f.service.Authenticate(ctx, "garbage")
		assertInvalidToken(t, err)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		_, _, err := f.service.Authenticate(ctx, "fv_000000000000.no-such-secret")
		assertInvalidToken(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := f.service.Authenticate(ctx, result.Prefix+".wrong-secret")
		assertInvalidToken(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		expired := f.issue(t, &past)
		_, _, err := f.service.Authenticate(ctx, expired.Token)
		assertInvalidToken(t, err)
	})

	t.Run("revoked token", func(t *testing.T) {
		revoked := f.issue(t, nil)
		require.NoError(t, f.service.Revoke(ctx, f.user.CompanyID, revoked.ID))
		_, _, err := f.service.Authenticate(ctx, revoked.Token)
		assertInvalidToken(t, err)
	})

	t.Run("soft-deleted user cannot authenticate", func(t *testing.T) {
		fresh := newTokenFixture(t)
		tok := fresh.issue(t, nil)
		require.NoError(t, fresh.user.SoftDelete())
		_, _, err := fresh.service.Authenticate(ctx, tok.Token)
		assertInvalidToken(t, err)
	})
}

func TestTokenServiceRevokeTwice(t *testing.T) {
	f := newTokenFixture(t)
	result := f.issue(t, nil)
	ctx := context.Background()

	require.NoError(t, f.service.Revoke(ctx, f.user.CompanyID, result.ID))
	assert.ErrorIs(t, f.service.Revoke(ctx, f.user.CompanyID, result.ID), shared.ErrInvalidState)
}

func TestTokenServiceRevokeIsTenantScoped(t *testing.T) {
	f := newTokenFixture(t)
	result := f.issue(t, nil)

	err := f.service.Revoke(context.Background(), uuid.New(), result.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
