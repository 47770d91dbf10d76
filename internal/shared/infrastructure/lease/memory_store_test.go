package lease

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ok, err := store.Acquire(ctx, "cand-1:3", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second acquire while held fails.
	ok, err = store.Acquire(ctx, "cand-1:3", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// Different key is independent.
	ok, err = store.Acquire(ctx, "cand-1:4", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Release(ctx, "cand-1:3"))
	ok, err = store.Acquire(ctx, "cand-1:3", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	current := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	ok, err := store.Acquire(ctx, "cand-2:1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	current = current.Add(10 * time.Second)
	ok, _ = store.Acquire(ctx, "cand-2:1", 30*time.Second)
	assert.False(t, ok)

	current = current.Add(25 * time.Second)
	ok, _ = store.Acquire(ctx, "cand-2:1", 30*time.Second)
	assert.True(t, ok, "expired lease should be reacquirable")
}
