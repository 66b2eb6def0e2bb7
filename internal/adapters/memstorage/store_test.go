package memstorage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TabSlots(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, ok, err := store.GetTab(ctx, "tab-1", "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetTab(ctx, "tab-1", "token", "abc"))

	value, ok, err := store.GetTab(ctx, "tab-1", "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", value)

	// Other tabs never see tab-exclusive slots.
	_, ok, err = store.GetTab(ctx, "tab-2", "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.DeleteTab(ctx, "tab-1", "token"))
	_, ok, err = store.GetTab(ctx, "tab-1", "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ClearTab(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.SetTab(ctx, "tab-1", "token", "abc"))
	require.NoError(t, store.SetTab(ctx, "tab-1", "_tab_id", "tab-1"))
	require.NoError(t, store.SetTab(ctx, "tab-2", "token", "def"))

	require.NoError(t, store.ClearTab(ctx, "tab-1"))

	_, ok, err := store.GetTab(ctx, "tab-1", "token")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.GetTab(ctx, "tab-1", "_tab_id")
	require.NoError(t, err)
	assert.False(t, ok)

	value, ok, err := store.GetTab(ctx, "tab-2", "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", value)
}

func TestStore_SetSharedIfAbsent(t *testing.T) {
	ctx := context.Background()
	store := New()

	seeded, err := store.SetSharedIfAbsent(ctx, "token", "first")
	require.NoError(t, err)
	assert.True(t, seeded)

	// Second writer loses; first value persists.
	seeded, err = store.SetSharedIfAbsent(ctx, "token", "second")
	require.NoError(t, err)
	assert.False(t, seeded)

	value, ok, err := store.GetShared(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", value)

	require.NoError(t, store.DeleteShared(ctx, "token"))
	_, ok, err = store.GetShared(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	// After an explicit delete the slot may be seeded again.
	seeded, err = store.SetSharedIfAbsent(ctx, "token", "second")
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestStore_ConcurrentSeeding(t *testing.T) {
	ctx := context.Background()
	store := New()

	const writers = 32
	var wg sync.WaitGroup
	wins := make(chan string, writers)

	for i := range writers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			value := string(rune('a' + n%26))
			seeded, err := store.SetSharedIfAbsent(ctx, "token", value)
			assert.NoError(t, err)
			if seeded {
				wins <- value
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	// Exactly one writer wins and its value is what persists.
	winner, ok := <-wins
	require.True(t, ok)
	_, more := <-wins
	assert.False(t, more)

	value, ok, err := store.GetShared(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, winner, value)
}
