package cache

import (
	"context"
	"sync"
	"time"

	"github.com/finvoice/backend/internal/infrastructure/auth"
)

// InMemoryTokenBlacklist implements auth.TokenBlacklist with a
// mutex-guarded map. Single-instance deployments only.
type InMemoryTokenBlacklist struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

// NewInMemoryTokenBlacklist creates a new in-memory blacklist
func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		revoked: make(map[string]time.Time),
	}
}

// Revoke marks a token ID as revoked for the given TTL
func (b *InMemoryTokenBlacklist) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.revoked[jti] = now.Add(ttl)
	for k, expiry := range b.revoked {
		if now.After(expiry) {
			delete(b.revoked, k)
		}
	}
	return nil
}

// IsRevoked checks whether a token ID has been revoked
func (b *InMemoryTokenBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiry, ok := b.revoked[jti]
	return ok && time.Now().Before(expiry), nil
}

// Ensure InMemoryTokenBlacklist implements TokenBlacklist
var _ auth.TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
