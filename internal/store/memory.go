package store

import (
	"context"
	"sync"

	"github.com/zyvora/zyvora/internal/student"
)

// Memory is the default Store: a mutex-guarded map with no persistence
// and no eviction. Concurrent Puts for the same user are last-write-wins,
// but reads never observe a torn profile.
type Memory struct {
	mu       sync.RWMutex
	profiles map[string]student.Profile
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{profiles: make(map[string]student.Profile)}
}

func (m *Memory) Get(_ context.Context, userID string) (student.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return student.Profile{}, ErrNotFound
	}
	return p, nil
}

func (m *Memory) Put(_ context.Context, p student.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.profiles[p.UserID] = p
	return nil
}

func (m *Memory) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.profiles, userID)
	return nil
}

func (m *Memory) List(_ context.Context) ([]student.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]student.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}
