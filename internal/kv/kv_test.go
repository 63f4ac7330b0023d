package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	_, ok, err := mem.Get(ctx, "wallet-admin:acme:clientes")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, mem.Set(ctx, "wallet-admin:acme:clientes", `[]`))

	value, ok, err := mem.Get(ctx, "wallet-admin:acme:clientes")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, value)
}

func TestMemoryOverwrite(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Set(ctx, "k", "first"))
	require.NoError(t, mem.Set(ctx, "k", "second"))

	value, ok, err := mem.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestMemoryHonoursContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mem := NewMemory()
	_, _, err := mem.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, mem.Set(ctx, "k", "v"), context.Canceled)
}

func TestSQLiteGetSet(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, "wallet-admin:acme:seeded")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "wallet-admin:acme:seeded", "1"))
	require.NoError(t, store.Set(ctx, "wallet-admin:acme:seeded", "2"))

	value, ok, err := store.Get(ctx, "wallet-admin:acme:seeded")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", value)
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "wallet-admin:acme:wallets", `["a"]`))
	require.NoError(t, store.Set(ctx, "wallet-admin:beta:wallets", `["b"]`))

	value, ok, err := store.Get(ctx, "wallet-admin:acme:wallets")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["a"]`, value)
}
