package identity

import (
	"github.com/finvoice/backend/internal/domain/identity"
	"github.com/finvoice/backend/internal/domain/shared"
)

// Authorization denial reasons. NoSession and MissingCompany mean the
// request never established a usable tenant context (401); a missing
// permission means the session is fine but the action is not allowed (403).
var (
	ErrNoSession         = shared.NewDomainError("NO_SESSION", "Authentication required")
	ErrMissingCompany    = shared.NewDomainError("MISSING_COMPANY", "Session carries no company context")
	ErrMissingPermission = shared.NewDomainError("MISSING_PERMISSION", "Permission denied for this action")
)

// Guard is the single authorization decision point for request handling.
// Route handlers and middleware ask the guard instead of inspecting roles
// or permission flags themselves; the policy behind it is swappable.
type Guard struct {
	policy identity.Policy
}

// NewGuard creates a guard backed by the given policy
func NewGuard(policy identity.Policy) *Guard {
	if policy == nil {
		policy = identity.NewRolePolicy()
	}
	return &Guard{policy: policy}
}

// Authorize checks that the principal exists, is bound to a company, and
// may perform the action on the resource. A nil return means allowed.
func (g *Guard) Authorize(principal *identity.Principal, action, resource string) error {
	if principal == nil || principal.UserID == "" {
		return ErrNoSession
	}
	if principal.CompanyID == "" {
		return ErrMissingCompany
	}
	if !g.policy.Can(principal, action, resource) {
		return ErrMissingPermission
	}
	return nil
}
