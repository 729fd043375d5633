package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal security events.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to end users.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogSession records a session lifecycle event for a principal.
func (s *Service) LogSession(ctx context.Context, t EventType, userID, ip, message string) error {
	return s.Append(ctx, Event{
		Type:      t,
		UserID:    userID,
		IPAddress: ip,
		Message:   message,
	})
}

// LogAdminAction records an operation one principal performed on another.
func (s *Service) LogAdminAction(ctx context.Context, actorUserID, targetUserID, ip, message string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeAccountDeleted,
		UserID:      targetUserID,
		ActorUserID: actorUserID,
		IPAddress:   ip,
		Message:     message,
	})
}
