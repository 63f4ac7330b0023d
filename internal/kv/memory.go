package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and ephemeral demo runs.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Corrupt overwrites a key with an arbitrary payload, bypassing any encoding.
// Exists so tests can exercise the degrade-to-default read path.
func (m *Memory) Corrupt(key, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = payload
}
