package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory - кэш в памяти процесса. Не разделяется между экземплярами сервиса.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     Clock
}

var _ Cache = (*Memory)(nil)

// MemoryOption настраивает Memory.
type MemoryOption func(*Memory)

// WithClock подменяет источник времени.
func WithClock(clock Clock) MemoryOption {
	return func(m *Memory) {
		m.now = clock
	}
}

// NewMemory создает пустой кэш в памяти.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get возвращает значение, если оно не истекло. Истекшие записи удаляются.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		// Запись могли перезаписать между блокировками.
		if cur, exists := m.entries[key]; exists && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set сохраняет копию значения на ttl.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	buf := make([]byte, len(value))
	copy(buf, value)

	m.mu.Lock()
	m.entries[key] = entry{value: buf, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// Delete удаляет ключ.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Len возвращает количество записей, включая еще не удаленные истекшие.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
