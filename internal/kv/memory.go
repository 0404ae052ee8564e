package kv

import (
	"context"
	"sync"
)

// Memory is an in-memory Store. An optional byte capacity emulates the host
// primitive's quota behavior so callers can exercise rejected writes.
type Memory struct {
	mu       sync.RWMutex
	data     map[string]string
	maxBytes int
}

// NewMemory returns an unbounded in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// NewMemoryWithCapacity returns an in-memory store that rejects writes once
// the total stored bytes (keys plus values) would exceed maxBytes.
func NewMemoryWithCapacity(maxBytes int) *Memory {
	return &Memory{data: make(map[string]string), maxBytes: maxBytes}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.maxBytes > 0 {
		total := len(key) + len(value)
		for k, v := range m.data {
			if k == key {
				continue
			}
			total += len(k) + len(v)
		}
		if total > m.maxBytes {
			return ErrCapacity
		}
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; !ok {
		return false, nil
	}
	delete(m.data, key)
	return true, nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
