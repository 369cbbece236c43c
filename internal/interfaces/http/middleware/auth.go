package middleware

import (
	"errors"
	"strings"

	identityapp "github.com/finvoice/backend/internal/application/identity"
	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/auth"
	"github.com/finvoice/backend/internal/infrastructure/logger"
	"github.com/finvoice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authentication context keys
const (
	ClaimsKey    = "auth_claims"
	PrincipalKey = "auth_principal"
	CompanyIDKey = "auth_company_id"
	UserIDKey    = "auth_user_id"

	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	APITokenPrefix = "Token "
	APIKeyHeader   = "X-API-Key"
)

// AuthConfig configures the session authentication middleware
type AuthConfig struct {
	// JWTService validates Bearer session tokens
	JWTService *auth.JWTService
	// Blacklist rejects revoked session tokens; optional
	Blacklist auth.TokenBlacklist
	// Tokens authenticates long-lived API tokens; optional
	Tokens *identityapp.TokenService
	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
	// Logger for authentication events
	Logger *zap.Logger
}

// Authenticate resolves the request's principal from either a Bearer
// session token or an API token and stores it in the context. Requests
// without a usable session are rejected with 401.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		if apiKey := c.GetHeader(APIKeyHeader); apiKey != "" && cfg.Tokens != nil {
			authenticateAPIToken(c, cfg, apiKey)
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		switch {
		case strings.HasPrefix(header, BearerPrefix):
			authenticateSession(c, cfg, strings.TrimPrefix(header, BearerPrefix))
		case strings.HasPrefix(header, APITokenPrefix) && cfg.Tokens != nil:
			authenticateAPIToken(c, cfg, strings.TrimPrefix(header, APITokenPrefix))
		default:
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
		}
	}
}

// authenticateSession validates a JWT access token and checks it against
// the revocation blacklist.
func authenticateSession(c *gin.Context, cfg AuthConfig, tokenString string) {
	claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("Session token rejected",
				zap.Error(err), zap.String("path", c.Request.URL.Path))
		}
		if errors.Is(err, auth.ErrExpiredToken) {
			abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
			return
		}
		abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token")
		return
	}

	if cfg.Blacklist != nil && claims.ID != "" {
		revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// Fail open for availability; the token is still signed and unexpired
			if cfg.Logger != nil {
				cfg.Logger.Error("Blacklist check failed",
					zap.Error(err), zap.String("jti", claims.ID))
			}
		} else if revoked {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token has been revoked")
			return
		}
	}

	companyID, err := claims.CompanyUUID()
	if err != nil {
		abortUnauthorized(c, dto.ErrCodeUnauthorized, "Session carries no company context")
		return
	}
	userID, err := claims.UserUUID()
	if err != nil {
		abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token")
		return
	}

	c.Set(ClaimsKey, claims)
	setPrincipal(c, claims.Principal(), companyID, userID)
	c.Next()
}

// authenticateAPIToken resolves an API token to its owning user. All
// failure modes produce the same response.
func authenticateAPIToken(c *gin.Context, cfg AuthConfig, raw string) {
	user, _, err := cfg.Tokens.Authenticate(c.Request.Context(), raw)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("API token rejected", zap.String("path", c.Request.URL.Path))
		}
		abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Invalid token")
		return
	}

	principal := &identity.Principal{
		UserID:      user.ID.String(),
		CompanyID:   user.CompanyID.String(),
		Role:        user.Role,
		Permissions: user.Permissions,
	}
	setPrincipal(c, principal, user.CompanyID, user.ID)
	c.Next()
}

// setPrincipal stores the resolved principal in the gin context and
// enriches the request-scoped logger with tenant correlation fields.
func setPrincipal(c *gin.Context, principal *identity.Principal, companyID, userID uuid.UUID) {
	c.Set(PrincipalKey, principal)
	c.Set(CompanyIDKey, companyID)
	c.Set(UserIDKey, userID)

	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, log = logger.WithCompanyID(ctx, log, principal.CompanyID)
	ctx, _ = logger.WithUserID(ctx, log, principal.UserID)
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// GetClaims retrieves the session claims, nil for API-token requests
func GetClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetPrincipal retrieves the authenticated principal, nil if absent
func GetPrincipal(c *gin.Context) *identity.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if principal, ok := v.(*identity.Principal); ok {
			return principal
		}
	}
	return nil
}

// GetCompanyID retrieves the authenticated company ID, uuid.Nil if absent
func GetCompanyID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(CompanyIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// GetUserID retrieves the authenticated user ID, uuid.Nil if absent
func GetUserID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(UserIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// domainCode extracts the code of a domain error, empty otherwise
func domainCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
