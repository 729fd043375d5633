package credential

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no credential exists for the principal.
var ErrNotFound = errors.New("credential not found")

// Store maps a principal ID to its hashed secret. Verification never reveals
// whether the principal exists: an unknown principal and a wrong secret both
// come back as a plain mismatch.
type Store interface {
	// Put hashes the secret and upserts it under principalID, replacing any
	// previous credential.
	Put(ctx context.Context, principalID, secret string) error

	// Get returns the stored hash, or ErrNotFound. The hash never leaves
	// the credential layer in responses; Get exists for verification and
	// migration tooling.
	Get(ctx context.Context, principalID string) (string, error)

	// Verify reports whether candidate matches the stored hash. An unknown
	// principal is a mismatch, not an error.
	Verify(ctx context.Context, principalID, candidate string) (bool, error)

	// Remove deletes the credential and reports whether one existed.
	// Removing an absent credential is not an error.
	Remove(ctx context.Context, principalID string) (bool, error)
}
