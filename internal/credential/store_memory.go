package credential

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store for tests and single-node development.
type MemoryStore struct {
	mu     sync.RWMutex
	hasher *Hasher
	hashes map[string]string
}

func NewMemoryStore(hasher *Hasher) *MemoryStore {
	return &MemoryStore{
		hasher: hasher,
		hashes: make(map[string]string),
	}
}

func (s *MemoryStore) Put(_ context.Context, principalID, secret string) error {
	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.hashes[principalID] = hash
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, principalID string) (string, error) {
	s.mu.RLock()
	hash, ok := s.hashes[principalID]
	s.mu.RUnlock()

	if !ok {
		return "", ErrNotFound
	}
	return hash, nil
}

func (s *MemoryStore) Verify(ctx context.Context, principalID, candidate string) (bool, error) {
	hash, err := s.Get(ctx, principalID)
	if err != nil {
		return false, nil
	}
	return s.hasher.Compare(hash, candidate), nil
}

func (s *MemoryStore) Remove(_ context.Context, principalID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.hashes[principalID]
	delete(s.hashes, principalID)
	return ok, nil
}
