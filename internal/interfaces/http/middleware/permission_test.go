package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newPermissionEngine(principal *identity.Principal) *gin.Engine {
	guard := identityapp.NewGuard(nil)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if principal != nil {
			c.Set(PrincipalKey, principal)
		}
		c.Next()
	})
	engine.GET("/invoices", RequirePermission(guard, "read", "invoices"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name       string
		principal  *identity.Principal
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no principal is unauthorized",
			principal:  nil,
			wantStatus: http.StatusUnauthorized,
			wantCode:   dto.ErrCodeUnauthorized,
		},
		{
			name: "principal without company is forbidden",
			principal: &identity.Principal{
				UserID: uuid.NewString(),
				Role:   identity.RoleOwner,
			},
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrCodeForbidden,
		},
		{
			name: "member without permission is forbidden",
			principal: &identity.Principal{
				UserID:    uuid.NewString(),
				CompanyID: uuid.NewString(),
				Role:      identity.RoleMember,
			},
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrCodeForbidden,
		},
		{
			name: "member with permission passes",
			principal: &identity.Principal{
				UserID:      uuid.NewString(),
				CompanyID:   uuid.NewString(),
				Role:        identity.RoleMember,
				Permissions: identity.NewPermissionSet("invoices:read"),
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "owner passes without explicit grant",
			principal: &identity.Principal{
				UserID:    uuid.NewString(),
				CompanyID: uuid.NewString(),
				Role:      identity.RoleOwner,
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newPermissionEngine(tt.principal)
			req := httptest.NewRequest(http.MethodGet, "/invoices", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, rec))
			}
		})
	}
}
