package audit

import "time"

// Event is an immutable, append-only security log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Capture is best-effort; never block an auth flow on audit failures.
// - Tokens, passwords, and hashes must never appear in a record.
//
// Storage recommendation (Postgres):
// - Table audit_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.
// - Optional: partition by time for retention.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// UserID is the principal the event concerns, when known. Failed
	// refreshes with undecodable tokens have no principal and leave it empty.
	UserID string `json:"user_id,omitempty" db:"user_id"`

	// ActorUserID is the authenticated user causing the event when it is
	// not the subject itself (admin operations).
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeRegistered     EventType = "registered"
	EventTypeLogin          EventType = "login"
	EventTypeLogout         EventType = "logout"
	EventTypeRefreshDenied  EventType = "refresh_denied"
	EventTypeAccountDeleted EventType = "account_deleted"
)
