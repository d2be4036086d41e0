// tokenstore/memory.go
package tokenstore

import (
	"context"
	"sync"
)

// MemoryStore keeps both tokens in process memory. It is the default store.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore returns a MemoryStore seeded with the given tokens.
func NewMemoryStore(accessToken, refreshToken string) *MemoryStore {
	return &MemoryStore{access: accessToken, refresh: refreshToken}
}

func (m *MemoryStore) AccessToken(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.access, nil
}

func (m *MemoryStore) SetAccessToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.access = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) RefreshToken(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refresh, nil
}

func (m *MemoryStore) SetRefreshToken(_ context.Context, token string) error {
	m.mu.Lock()
	m.refresh = token
	m.mu.Unlock()
	return nil
}
