package session

import (
	"context"
	"crypto/subtle"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore is an in-process Store for tests and single-node development.
// Same semantics as RedisStore: one slot per principal, lazy expiry.
type MemoryStore struct {
	mu    sync.Mutex
	codec Codec
	slots map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore(codec Codec) *MemoryStore {
	return &MemoryStore{
		codec: codec,
		slots: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, userID, role string) (string, error) {
	now := s.now()
	token, err := s.codec.IssueRefresh(now, userID, role)
	if err != nil {
		return "", fmt.Errorf("issue refresh token: %w", err)
	}

	s.mu.Lock()
	s.slots[userID] = memoryEntry{token: token, expiresAt: now.Add(s.codec.RefreshTTL())}
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Validate(_ context.Context, tokenString string) (bool, error) {
	now := s.now()
	userID, err := s.codec.RefreshSubject(tokenString, now)
	if err != nil {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.slots[userID]
	if !ok {
		return false, nil
	}
	if !now.Before(entry.expiresAt) {
		delete(s.slots, userID)
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(entry.token), []byte(tokenString)) == 1, nil
}

func (s *MemoryStore) Invalidate(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.slots, userID)
	s.mu.Unlock()
	return nil
}
