package middleware

import (
	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequirePermission asks the guard whether the authenticated principal
// may perform the action on the resource. A request without a usable
// session is rejected with 401; a session lacking the permission with 403.
func RequirePermission(guard *identityapp.Guard, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := guard.Authorize(GetPrincipal(c), action, resource); err != nil {
			code := dto.NormalizeErrorCode(domainCode(err))
			c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
				dto.NewErrorResponseWithRequestID(code, err.Error(), GetRequestID(c)))
			return
		}
		c.Next()
	}
}
