package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/iudanet/gophtodo/internal/crypto"
)

// Memory is an in-process revocation list.
// Suitable only for a single server instance: entries are lost on restart.
type Memory struct {
	entries map[string]time.Time // token hash -> token expiry
	now     func() time.Time
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory revocation list
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks token as revoked
func (m *Memory) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	key := crypto.HashToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Повторный отзыв не укорачивает срок хранения записи
	if existing, ok := m.entries[key]; ok && existing.After(expiresAt) {
		return nil
	}
	m.entries[key] = expiresAt

	return nil
}

// IsRevoked reports whether token was revoked
func (m *Memory) IsRevoked(_ context.Context, token string) (bool, error) {
	key := crypto.HashToken(token)

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[key]
	return ok, nil
}

// Prune removes entries whose token already expired
func (m *Memory) Prune(_ context.Context) (int, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, expiresAt := range m.entries {
		if expiresAt.Before(now) {
			delete(m.entries, key)
			removed++
		}
	}

	return removed, nil
}

// Len returns number of tracked entries
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}
