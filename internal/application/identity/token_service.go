package identity

import (
	"context"
	"time"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/finvoice/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenService issues and authenticates API tokens
type TokenService struct {
	tokenRepo identity.APITokenRepository
	userRepo  identity.UserRepository
	logger    *zap.Logger
}

// NewTokenService creates a new API token service
func NewTokenService(tokenRepo identity.APITokenRepository, userRepo identity.UserRepository, logger *zap.Logger) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Issue creates a new API token for the user. The plaintext in the result
// is the only time the secret leaves the service; storage keeps the
// indexable prefix and a salted hash.
func (s *TokenService) Issue(ctx context.Context, companyID, userID uuid.UUID, input IssueTokenInput) (*IssueTokenResult, error) {
	parts, err := auth.GenerateTokenParts()
	if err != nil {
		s.logger.Error("Failed to generate token parts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate token")
	}

	secretHash, err := auth.HashTokenSecret(parts.Secret)
	if err != nil {
		s.logger.Error("Failed to hash token secret", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate token")
	}

	token, err := identity.NewAPIToken(companyID, userID, input.Name, parts.Prefix, secretHash, input.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Save(ctx, token); err != nil {
		return nil, err
	}

	s.logger.Info("API token issued",
		zap.String("token_id", token.ID.String()),
		zap.String("prefix", token.Prefix),
		zap.String("company_id", companyID.String()))

	return &IssueTokenResult{
		ID:        token.ID,
		Name:      token.Name,
		Prefix:    token.Prefix,
		Token:     parts.Plaintext(),
		ExpiresAt: token.ExpiresAt,
		CreatedAt: token.CreatedAt,
	}, nil
}

// Authenticate resolves a presented "prefix.secret" token to its user.
// Lookup uses the prefix index; the secret is verified against the stored
// hash. Malformed, unknown, revoked and expired tokens all produce the
// same error.
func (s *TokenService) Authenticate(ctx context.Context, plaintext string) (*identity.User, *identity.APIToken, error) {
	invalid := shared.NewDomainError("INVALID_TOKEN", "Invalid API token")

	prefix, secret, err := auth.SplitToken(plaintext)
	if err != nil {
		return nil, nil, invalid
	}

	token, err := s.tokenRepo.FindByPrefix(ctx, prefix)
	if err != nil {
		return nil, nil, invalid
	}
	if !token.IsUsable(time.Now()) {
		return nil, nil, invalid
	}
	if !auth.VerifyTokenSecret(secret, token.SecretHash) {
		return nil, nil, invalid
	}

	user, err := s.userRepo.FindByIDForCompany(ctx, token.CompanyID, token.UserID)
	if err != nil {
		return nil, nil, invalid
	}
	if !user.CanLogin() {
		return nil, nil, invalid
	}

	token.MarkUsed(time.Now())
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		// Usage tracking is best-effort
		s.logger.Warn("Failed to record token usage", zap.Error(err))
	}

	return user, token, nil
}

// List returns the company's API tokens without secret material
func (s *TokenService) List(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]TokenInfo, error) {
	tokens, err := s.tokenRepo.FindAllForCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	infos := make([]TokenInfo, 0, len(tokens))
	for i := range tokens {
		infos = append(infos, NewTokenInfo(&tokens[i]))
	}
	return infos, nil
}

// Revoke permanently disables a token
func (s *TokenService) Revoke(ctx context.Context, companyID, tokenID uuid.UUID) error {
	token, err := s.tokenRepo.FindByIDForCompany(ctx, companyID, tokenID)
	if err != nil {
		return err
	}
	if err := token.Revoke(); err != nil {
		return err
	}
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		return err
	}

	s.logger.Info("API token revoked",
		zap.String("token_id", tokenID.String()),
		zap.String("company_id", companyID.String()))
	return nil
}
