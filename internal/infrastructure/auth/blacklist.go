package auth

import (
	"context"
	"time"
)

// TokenBlacklist tracks revoked session tokens by their JWT ID until they
// would have expired anyway. Logout and clear-session push the access
// token here; the auth middleware rejects blacklisted tokens.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
