package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupArena(t *testing.T) *Arena {
	t.Helper()
	return NewArena(NewSQLiteStore(setupDB(t)))
}

func TestTab_WriteSignalsSiblings_NotSelf(t *testing.T) {
	arena := setupArena(t)
	ctx := context.Background()

	writer := arena.OpenTab()
	sibling := arena.OpenTab()

	var writerKeys, siblingKeys []string
	writer.Watch(func(key string) { writerKeys = append(writerKeys, key) })
	sibling.Watch(func(key string) { siblingKeys = append(siblingKeys, key) })

	require.NoError(t, writer.Set(ctx, "cart_a@x.com", "[]"))

	assert.Empty(t, writerKeys, "a tab must not receive its own signal")
	assert.Equal(t, []string{"cart_a@x.com"}, siblingKeys)
}

func TestTab_SignalCarriesKeyOnly_ReReadWins(t *testing.T) {
	arena := setupArena(t)
	ctx := context.Background()

	writer := arena.OpenTab()
	sibling := arena.OpenTab()

	// The sibling re-reads upon the signal; the value it observes must be
	// the one just written, not anything carried on the signal.
	var observed string
	sibling.Watch(func(key string) {
		v, ok, err := sibling.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		observed = v
	})

	require.NoError(t, writer.Set(ctx, "k", "fresh"))
	assert.Equal(t, "fresh", observed)
}

func TestTab_RemoveSignalsSiblings(t *testing.T) {
	arena := setupArena(t)
	ctx := context.Background()

	writer := arena.OpenTab()
	sibling := arena.OpenTab()

	require.NoError(t, writer.Set(ctx, "k", "v"))

	var keys []string
	sibling.Watch(func(key string) { keys = append(keys, key) })

	require.NoError(t, writer.Remove(ctx, "k"))
	assert.Equal(t, []string{"k"}, keys)

	_, ok, err := sibling.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTab_Unwatch_StopsDelivery(t *testing.T) {
	arena := setupArena(t)
	ctx := context.Background()

	writer := arena.OpenTab()
	sibling := arena.OpenTab()

	calls := 0
	unwatch := sibling.Watch(func(string) { calls++ })

	require.NoError(t, writer.Set(ctx, "k", "1"))
	unwatch()
	require.NoError(t, writer.Set(ctx, "k", "2"))

	assert.Equal(t, 1, calls)
}

func TestTab_Close_DetachesFromArena(t *testing.T) {
	arena := setupArena(t)
	ctx := context.Background()

	writer := arena.OpenTab()
	sibling := arena.OpenTab()

	calls := 0
	sibling.Watch(func(string) { calls++ })
	sibling.Close()

	require.NoError(t, writer.Set(ctx, "k", "v"))
	assert.Zero(t, calls)
}

func TestArena_ThreeTabs_AllSiblingsNotified(t *testing.T) {
	arena := setupArena(t)
	ctx := context.Background()

	a := arena.OpenTab()
	b := arena.OpenTab()
	c := arena.OpenTab()

	var gotB, gotC []string
	b.Watch(func(key string) { gotB = append(gotB, key) })
	c.Watch(func(key string) { gotC = append(gotC, key) })

	require.NoError(t, a.Set(ctx, "favorites_a@x.com", "[]"))

	assert.Equal(t, []string{"favorites_a@x.com"}, gotB)
	assert.Equal(t, []string{"favorites_a@x.com"}, gotC)
}
