package identity

import (
	"strings"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// APIToken is a machine credential scoped to a user and company. The
// storage split is prefix + secret hash: the prefix is non-secret and
// indexable for lookup, the secret is stored only as a salted hash and the
// plaintext is shown exactly once at creation.
type APIToken struct {
	shared.TenantAggregateRoot
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	Prefix     string     `gorm:"size:20;not null;uniqueIndex" json:"prefix"`
	SecretHash string     `gorm:"size:200;not null" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	Revoked    bool       `gorm:"not null;default:false" json:"revoked"`
}

// TableName returns the table name for GORM
func (APIToken) TableName() string {
	return "api_tokens"
}

// NewAPIToken creates a new API token record from pre-generated parts.
// secretHash must already be the salted hash of the secret; the aggregate
// never sees the plaintext.
func NewAPIToken(companyID, userID uuid.UUID, name, prefix, secretHash string, expiresAt *time.Time) (*APIToken, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "token name is required")
	}
	if prefix == "" || secretHash == "" {
		return nil, shared.NewDomainError("INVALID_TOKEN", "token prefix and secret hash are required")
	}

	token := &APIToken{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		UserID:              userID,
		Name:                name,
		Prefix:              prefix,
		SecretHash:          secretHash,
		ExpiresAt:           expiresAt,
	}

	token.AddDomainEvent(NewAPITokenIssuedEvent(token.ID, companyID, prefix))
	return token, nil
}

// Revoke marks the token as revoked. Revoking twice is invalid.
func (t *APIToken) Revoke() error {
	if t.Revoked {
		return shared.ErrInvalidState
	}
	t.Revoked = true
	t.Touch()
	t.IncrementVersion()
	return nil
}

// MarkUsed records the last time the token authenticated a request
func (t *APIToken) MarkUsed(at time.Time) {
	t.LastUsedAt = &at
	t.Touch()
}

// IsUsable reports whether the token may authenticate at the given time
func (t *APIToken) IsUsable(now time.Time) bool {
	if t.Revoked {
		return false
	}
	if t.ExpiresAt != nil && now.After(*t.ExpiresAt) {
		return false
	}
	return true
}

// APITokenIssuedEvent is raised when an API token is issued
type APITokenIssuedEvent struct {
	shared.BaseDomainEvent
	Prefix string `json:"prefix"`
}

// NewAPITokenIssuedEvent creates a new APITokenIssuedEvent
func NewAPITokenIssuedEvent(tokenID, companyID uuid.UUID, prefix string) *APITokenIssuedEvent {
	return &APITokenIssuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.api_token.issued", "APIToken", tokenID, companyID),
		Prefix:          prefix,
	}
}
