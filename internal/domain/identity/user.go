package identity

import (
	"strings"
	"time"

	"github.com/finvoice/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role names with built-in semantics. Roles beyond these are plain strings
// whose capabilities come entirely from the permission set.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// PermissionSet maps a permission key ("resource:action") to whether it is granted
type PermissionSet map[string]bool

// NewPermissionSet builds a permission set from granted keys
func NewPermissionSet(keys ...string) PermissionSet {
	set := PermissionSet{}
	for _, key := range keys {
		if key != "" {
			set[key] = true
		}
	}
	return set
}

// Has reports whether the permission key is granted
func (p PermissionSet) Has(key string) bool {
	return p[key]
}

// User belongs to exactly one company. Users are soft-deletable: once
// referenced by financial history they are excluded from listings and from
// login but never physically removed.
type User struct {
	shared.TenantAggregateRoot
	Email        string        `gorm:"size:200;not null" json:"email"`
	Name         string        `gorm:"size:200;not null" json:"name"`
	PasswordHash string        `gorm:"size:200;not null" json:"-"`
	Role         string        `gorm:"size:50;not null;default:'member'" json:"role"`
	Permissions  PermissionSet `gorm:"serializer:json" json:"permissions"`
	Active       bool          `gorm:"not null;default:true" json:"active"`
	Deleted      bool          `gorm:"not null;default:false;column:soft_deleted" json:"deleted"`
	DeletedAt    *time.Time    `json:"deleted_at,omitempty"`
	LastLoginAt  *time.Time    `json:"last_login_at,omitempty"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user in the given company
func NewUser(companyID uuid.UUID, email, name, passwordHash, role string) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "user name is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "password hash is required")
	}
	if role == "" {
		role = RoleMember
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(companyID),
		Email:               strings.ToLower(email),
		Name:                name,
		PasswordHash:        passwordHash,
		Role:                role,
		Permissions:         PermissionSet{},
		Active:              true,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user.ID, companyID, user.Email))
	return user, nil
}

// UpdateProfile updates the user's display fields
func (u *User) UpdateProfile(name, role string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "user name is required")
	}
	u.Name = name
	if role != "" {
		u.Role = role
	}
	u.Touch()
	u.IncrementVersion()
	return nil
}

// SetPermissions replaces the user's permission set
func (u *User) SetPermissions(perms PermissionSet) {
	if perms == nil {
		perms = PermissionSet{}
	}
	u.Permissions = perms
	u.Touch()
	u.IncrementVersion()
}

// ChangePassword replaces the stored password hash
func (u *User) ChangePassword(passwordHash string) error {
	if passwordHash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "password hash is required")
	}
	u.PasswordHash = passwordHash
	u.Touch()
	u.IncrementVersion()
	return nil
}

// RecordLogin stores the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}

// SoftDelete marks the user as deleted while preserving the row for
// referential history. Soft-deleting twice is an invalid state transition.
func (u *User) SoftDelete() error {
	if u.Deleted {
		return shared.ErrInvalidState
	}
	now := time.Now()
	u.Deleted = true
	u.DeletedAt = &now
	u.Active = false
	u.Touch()
	u.IncrementVersion()
	u.AddDomainEvent(NewUserDeletedEvent(u.ID, u.CompanyID))
	return nil
}

// CanLogin reports whether the user may authenticate
func (u *User) CanLogin() bool {
	return u.Active && !u.Deleted
}

// IsAdmin reports whether the user's role carries implicit full access
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleOwner
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "email is required")
	}
	if !strings.Contains(email, "@") || len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "email format is invalid")
	}
	return nil
}

// UserCreatedEvent is raised when a user is created
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(userID, companyID uuid.UUID, email string) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.user.created", "User", userID, companyID),
		Email:           email,
	}
}

// UserDeletedEvent is raised when a user is soft-deleted
type UserDeletedEvent struct {
	shared.BaseDomainEvent
}

// NewUserDeletedEvent creates a new UserDeletedEvent
func NewUserDeletedEvent(userID, companyID uuid.UUID) *UserDeletedEvent {
	return &UserDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("identity.user.deleted", "User", userID, companyID),
	}
}
