package session

import (
	"context"
	"sync"
	"time"
)

const janitorInterval = time.Minute

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process backend. A janitor timer sweeps expired entries;
// Get also checks expiry so reads never return stale values between sweeps.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	clock   Clock
	janitor Timer
	closed  bool
}

func NewMemory() *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		clock:   realClock{},
	}
	m.janitor = m.clock.AfterFunc(janitorInterval, m.sweep)
	return m
}

// NewMemoryWithClock is for tests; the caller drives the sweep through the
// fake clock.
func NewMemoryWithClock(clock Clock) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		clock:   clock,
	}
	m.janitor = m.clock.AfterFunc(janitorInterval, m.sweep)
	return m
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	now := m.clock.Now()
	for key, e := range m.entries {
		if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
			delete(m.entries, key)
		}
	}
	m.janitor = m.clock.AfterFunc(janitorInterval, m.sweep)
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(m.clock.Now()) {
		delete(m.entries, key)
		return nil, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	e := entry{value: stored}
	if ttl > 0 {
		e.expiresAt = m.clock.Now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.janitor != nil {
		m.janitor.Stop()
	}
	m.entries = make(map[string]entry)
	return nil
}
