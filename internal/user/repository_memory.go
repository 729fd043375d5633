package user

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process Repository for tests and single-node
// development.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]Principal
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]Principal),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) Create(_ context.Context, p Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[p.Email]; taken {
		return ErrConflict
	}
	r.byID[p.ID] = clonePrincipal(p)
	r.byEmail[p.Email] = p.ID
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return clonePrincipal(r.byID[id]), nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return Principal{}, ErrNotFound
	}
	return clonePrincipal(p), nil
}

func (r *MemoryRepository) List(_ context.Context) ([]Principal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Principal, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, clonePrincipal(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.byEmail, p.Email)
	return nil
}

func clonePrincipal(p Principal) Principal {
	out := p
	out.Roles = append(out.Roles[:0:0], p.Roles...)
	return out
}
