package identity

import "fmt"

// Principal is the resolved identity of an authenticated request: who is
// acting, for which company, with which role and permissions.
type Principal struct {
	UserID      string
	CompanyID   string
	Role        string
	Permissions PermissionSet
}

// Policy decides whether a principal may perform an action on a resource.
// Centralizing the decision here keeps authorization logic out of
// individual route handlers and independently testable.
type Policy interface {
	Can(principal *Principal, action, resource string) bool
}

// PermissionKey builds the canonical permission key for a resource/action pair
func PermissionKey(resource, action string) string {
	return fmt.Sprintf("%s:%s", resource, action)
}

// RolePolicy is the default policy: owner and admin roles carry implicit
// full access; any other role needs the explicit permission key granted.
type RolePolicy struct{}

// NewRolePolicy creates the default role-based policy
func NewRolePolicy() *RolePolicy {
	return &RolePolicy{}
}

// Can implements Policy
func (p *RolePolicy) Can(principal *Principal, action, resource string) bool {
	if principal == nil {
		return false
	}
	if principal.Role == RoleOwner || principal.Role == RoleAdmin {
		return true
	}
	return principal.Permissions.Has(PermissionKey(resource, action))
}
