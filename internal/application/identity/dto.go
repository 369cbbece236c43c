package identity

import (
	"time"

	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput carries login credentials
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is returned on a successful login
type LoginResult struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserInfo  `json:"user"`
}

// SignupInput carries self-service signup data: the new company and its
// first (owner) user.
type SignupInput struct {
	CompanyName string
	Currency    string
	Email       string
	Name        string
	Password    string
}

// UserInfo is the user shape returned to API consumers
type UserInfo struct {
	ID          uuid.UUID              `json:"id"`
	CompanyID   uuid.UUID              `json:"company_id"`
	Email       string                 `json:"email"`
	Name        string                 `json:"name"`
	Role        string                 `json:"role"`
	Permissions identity.PermissionSet `json:"permissions"`
	Active      bool                   `json:"active"`
	LastLoginAt *time.Time             `json:"last_login_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NewUserInfo maps a user aggregate to its API shape
func NewUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.Permissions,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// CreateUserInput carries data for creating a user within a company
type CreateUserInput struct {
	Email       string
	Name        string
	Password    string
	Role        string
	Permissions identity.PermissionSet
}

// UpdateUserInput carries mutable user fields
type UpdateUserInput struct {
	Name        string
	Role        string
	Permissions identity.PermissionSet
}

// IssueTokenInput carries data for issuing an API token
type IssueTokenInput struct {
	Name      string
	ExpiresAt *time.Time
}

// IssueTokenResult returns the issued token. Token carries the plaintext
// and is populated exactly once, at issuance.
type IssueTokenResult struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Prefix    string     `json:"prefix"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TokenInfo is the API token shape for listings; no secret material
type TokenInfo struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	Revoked    bool       `json:"revoked"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewTokenInfo maps an API token aggregate to its listing shape
func NewTokenInfo(t *identity.APIToken) TokenInfo {
	return TokenInfo{
		ID:         t.ID,
		Name:       t.Name,
		Prefix:     t.Prefix,
		Revoked:    t.Revoked,
		LastUsedAt: t.LastUsedAt,
		ExpiresAt:  t.ExpiresAt,
		CreatedAt:  t.CreatedAt,
	}
}

// UpdateCompanyInput carries mutable company profile fields
type UpdateCompanyInput struct {
	Name      string
	LegalName string
	TaxNumber string
	Email     string
	Phone     string
	Address   string
	Currency  string
}

// LogoUploadResult returns the presigned upload URL and the storage key
// the caller must confirm after uploading.
type LogoUploadResult struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LogoDownloadResult returns a short-lived presigned download URL
type LogoDownloadResult struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}
