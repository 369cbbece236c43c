package identity

import (
	"testing"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGuardAuthorize(t *testing.T) {
	guard := NewGuard(nil)

	principal := func(role string, perms ...string) *identity.Principal {
		return &identity.Principal{
			UserID:      uuid.NewString(),
			CompanyID:   uuid.NewString(),
			Role:        role,
			Permissions: identity.NewPermissionSet(perms...),
		}
	}

	t.Run("nil principal", func(t *testing.T) {
		assert.ErrorIs(t, guard.Authorize(nil, "read", "invoices"), ErrNoSession)
	})

	t.Run("empty user id", func(t *testing.T) {
		p := &identity.Principal{CompanyID: uuid.NewString(), Role: identity.RoleOwner}
		assert.ErrorIs(t, guard.Authorize(p, "read", "invoices"), ErrNoSession)
	})

	t.Run("missing company", func(t *testing.T) {
		p := &identity.Principal{UserID: uuid.NewString(), Role: identity.RoleOwner}
		assert.ErrorIs(t, guard.Authorize(p, "read", "invoices"), ErrMissingCompany)
	})

	t.Run("member without permission", func(t *testing.T) {
		err := guard.Authorize(principal(identity.RoleMember, "invoices:read"), "write", "invoices")
		assert.ErrorIs(t, err, ErrMissingPermission)
	})

	t.Run("member with permission", func(t *testing.T) {
		assert.NoError(t, guard.Authorize(principal(identity.RoleMember, "invoices:write"), "write", "invoices"))
	})

	t.Run("owner implicit allow", func(t *testing.T) {
		assert.NoError(t, guard.Authorize(principal(identity.RoleOwner), "delete", "users"))
	})

	t.Run("admin implicit allow", func(t *testing.T) {
		assert.NoError(t, guard.Authorize(principal(identity.RoleAdmin), "read", "reports"))
	})
}
