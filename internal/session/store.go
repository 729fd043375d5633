// Package session implements the refresh-session cache: a single slot per
// principal mapping to the one currently-valid refresh token string. Refresh
// tokens are self-verifying, but only the cached one is live; overwriting
// the slot is what makes rotation and logout effective.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps cache connectivity failures. Callers surface it as an
// internal error; it never counts as a failed validation.
var ErrUnavailable = errors.New("session cache unavailable")

// Codec is the token-codec surface the store needs. *auth.Codec satisfies it.
type Codec interface {
	IssueRefresh(now time.Time, userID, role string) (string, error)
	RefreshSubject(tokenString string, now time.Time) (string, error)
	RefreshTTL() time.Duration
}

// Store is the capability abstraction over the refresh-session cache, so the
// backend (Redis, in-memory) is swappable without touching the authenticator.
type Store interface {
	// Create mints a fresh refresh token and stores it under the principal's
	// slot with TTL equal to the token's expiry, unconditionally overwriting
	// any previous entry. Last writer wins.
	Create(ctx context.Context, userID, role string) (string, error)

	// Validate reports whether tokenString is signed, unexpired, AND
	// byte-for-byte equal to the cached entry for its principal. A correctly
	// signed token that is not the cached one is rejected.
	Validate(ctx context.Context, tokenString string) (bool, error)

	// Invalidate deletes the principal's slot. Idempotent.
	Invalidate(ctx context.Context, userID string) error
}
