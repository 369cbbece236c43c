package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWT errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrMissingCompanyID = errors.New("token is missing company id")
)

// Claims are the session claims carried by both access and refresh tokens
type Claims struct {
	CompanyID   string                 `json:"company_id"`
	UserID      string                 `json:"user_id"`
	Email       string                 `json:"email"`
	Role        string                 `json:"role"`
	Permissions identity.PermissionSet `json:"permissions,omitempty"`
	TokenType   string                 `json:"token_type"`
	jwt.RegisteredClaims
}

// Principal converts the claims into a domain principal
func (c *Claims) Principal() *identity.Principal {
	return &identity.Principal{
		UserID:      c.UserID,
		CompanyID:   c.CompanyID,
		Role:        c.Role,
		Permissions: c.Permissions,
	}
}

// CompanyUUID parses the company ID claim
func (c *Claims) CompanyUUID() (uuid.UUID, error) {
	if c.CompanyID == "" {
		return uuid.Nil, ErrMissingCompanyID
	}
	return uuid.Parse(c.CompanyID)
}

// UserUUID parses the user ID claim
func (c *Claims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// TokenPair is an access/refresh token pair
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// JWTConfig holds signing configuration
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
}

// JWTService issues and validates HS256-signed session tokens
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	if config.AccessTTL == 0 {
		config.AccessTTL = 15 * time.Minute
	}
	if config.RefreshTTL == 0 {
		config.RefreshTTL = 7 * 24 * time.Hour
	}
	return &JWTService{config: config}
}

// GenerateTokenPair issues an access/refresh pair for the user
func (s *JWTService) GenerateTokenPair(user *identity.User) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.config.AccessTTL)

	access, err := s.sign(user, TokenTypeAccess, now, accessExpiry, s.config.AccessSecret, true)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.sign(user, TokenTypeRefresh, now, now.Add(s.config.RefreshTTL), s.config.RefreshSecret, false)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *JWTService) sign(user *identity.User, tokenType string, issuedAt, expiresAt time.Time, secret string, includePermissions bool) (string, error) {
	claims := &Claims{
		CompanyID: user.CompanyID.String(),
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if includePermissions {
		claims.Permissions = user.Permissions
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeAccess, s.config.AccessSecret)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeRefresh, s.config.RefreshSecret)
}

func (s *JWTService) validate(tokenString, expectedType, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongTokenType
	}
	if claims.CompanyID == "" {
		return nil, ErrMissingCompanyID
	}

	return claims, nil
}
