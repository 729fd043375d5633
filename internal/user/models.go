// Package user owns the principal directory: durable identity records with
// their role sets. Secrets live in internal/credential, never here.
package user

import (
	"errors"
	"time"

	"forms-platform/internal/rbac"
)

var (
	ErrNotFound = errors.New("principal not found")
	ErrConflict = errors.New("identifier already registered")
)

// Principal is a registered identity. Roles is ordered; the first entry is
// the primary role carried in issued tokens.
type Principal struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Roles     []rbac.Role `json:"roles"`
	CreatedAt time.Time   `json:"created_at"`
}

// PrimaryRole returns the role embedded in tokens minted for this principal.
func (p Principal) PrimaryRole() (rbac.Role, bool) {
	if len(p.Roles) == 0 {
		return "", false
	}
	return p.Roles[0], true
}
