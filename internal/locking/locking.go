// Package locking serializes read-modify-write sequences against a tenant's
// partition. The store's "read all, prepend one, write all" pattern is only
// safe when writers to the same tenant never interleave.
package locking

import (
	"context"
	"sync"
)

// TenantLocker grants exclusive access to a tenant partition for the duration
// of a store write. Release must always be called.
type TenantLocker interface {
	Acquire(ctx context.Context, tenantID string) (release func(), err error)
}

// MemoryLocker keys a mutex per tenant. Sufficient for a single process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *MemoryLocker) Acquire(ctx context.Context, tenantID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	m, ok := l.locks[tenantID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tenantID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
