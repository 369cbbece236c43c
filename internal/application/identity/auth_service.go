// Package identity contains the application services for companies,
// users, sessions and machine credentials.
package identity

import (
	"context"
	"time"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	// SignupEnabled toggles self-service company signup
	SignupEnabled bool
}

// AuthService handles login, token refresh, logout and signup
type AuthService struct {
	userRepo    identity.UserRepository
	companyRepo identity.CompanyRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	txManager   shared.TxManager
	config      AuthServiceConfig
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	companyRepo identity.CompanyRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	txManager shared.TxManager,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		txManager:   txManager,
		config:      config,
		logger:      logger,
	}
}

// Login authenticates a user by email and password and returns a session
// token pair. Soft-deleted and deactivated users cannot log in; the error
// never reveals which part of the credentials was wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	candidates, err := s.userRepo.FindAllByEmail(ctx, input.Email)
	if err != nil || len(candidates) == 0 {
		s.logger.Warn("Login attempt for unknown email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	// Email is unique per company, not globally, so the same address can
	// name one account in each of several companies. The password picks
	// the matching account.
	var user *identity.User
	for i := range candidates {
		candidate := &candidates[i]
		if candidate.CanLogin() && auth.VerifyPassword(input.Password, candidate.PasswordHash) {
			user = candidate
			break
		}
	}
	if user == nil {
		s.logger.Warn("Invalid password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	company, err := s.companyRepo.FindByID(ctx, user.CompanyID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to resolve company")
	}
	if !company.IsActive() {
		s.logger.Warn("Login attempt for suspended company",
			zap.String("company_id", company.ID.String()))
		return nil, shared.NewDomainError("COMPANY_SUSPENDED", "Company account is suspended")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate session tokens")
	}

	user.RecordLogin(time.Now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		// Not fatal for the login itself
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("company_id", user.CompanyID.String()))

	return &LoginResult{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
		User:         NewUserInfo(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The user
// is re-read so revoked access or fresh permissions take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid or expired")
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error("Blacklist lookup failed", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to validate session")
	}
	if revoked {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Session has been revoked")
	}

	companyID, err := claims.CompanyUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid")
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Refresh token is invalid")
	}

	user, err := s.userRepo.FindByIDForCompany(ctx, companyID, userID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Session user no longer exists")
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate token pair on refresh", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate session tokens")
	}

	return &LoginResult{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
		User:         NewUserInfo(user),
	}, nil
}

// Logout revokes the presented tokens for their remaining lifetime
func (s *AuthService) Logout(ctx context.Context, accessClaims *auth.Claims, refreshToken string) error {
	if accessClaims != nil {
		s.revokeClaims(ctx, accessClaims)
	}
	if refreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(refreshToken); err == nil {
			s.revokeClaims(ctx, claims)
		}
	}
	return nil
}

func (s *AuthService) revokeClaims(ctx context.Context, claims *auth.Claims) {
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err), zap.String("jti", claims.ID))
	}
}

// Signup creates a company and its owner user in one transaction. The
// endpoint is disabled entirely when signup is turned off in config.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*LoginResult, error) {
	if !s.config.SignupEnabled {
		return nil, shared.NewDomainError("SIGNUP_DISABLED", "Self-service signup is disabled")
	}

	passwordHash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PASSWORD", err.Error())
	}

	var user *identity.User
	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		company, err := identity.NewCompany(input.CompanyName, input.Currency)
		if err != nil {
			return err
		}
		if err := s.companyRepo.Save(txCtx, company); err != nil {
			return err
		}

		user, err = identity.NewUser(company.ID, input.Email, input.Name, passwordHash, identity.RoleOwner)
		if err != nil {
			return err
		}
		return s.userRepo.Save(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error("Failed to generate token pair after signup", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate session tokens")
	}

	s.logger.Info("Company signed up",
		zap.String("company_id", user.CompanyID.String()),
		zap.String("owner_id", user.ID.String()))

	return &LoginResult{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    tokenPair.ExpiresAt,
		User:         NewUserInfo(user),
	}, nil
}
