package rbac

import "fmt"

// Role is the closed set of roles a principal can hold.
// Keep these stable; they are embedded in signed tokens.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// AllRoles returns the full role enumeration. Deny-lists are derived from
// this at construction time, so a role added here is automatically excluded
// from every deny-list rebuilt afterwards.
func AllRoles() []Role {
	return []Role{RoleUser, RoleAdmin, RoleSuperAdmin}
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// Parse converts a raw string (e.g. a token claim) into a Role.
func Parse(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// DefaultRoles is the role set assigned at registration.
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

// Allowed reports whether role is a member of the given allow-list.
// An empty allow-list permits every valid role.
func Allowed(role Role, allowed []Role) bool {
	if len(allowed) == 0 {
		return role.Valid()
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Excluding derives an allow-list as "all known roles minus denied".
// The result is computed against AllRoles() at call time, never cached.
func Excluding(denied ...Role) []Role {
	deniedSet := make(map[Role]struct{}, len(denied))
	for _, d := range denied {
		deniedSet[d] = struct{}{}
	}

	var allowed []Role
	for _, r := range AllRoles() {
		if _, ok := deniedSet[r]; !ok {
			allowed = append(allowed, r)
		}
	}
	return allowed
}
