package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrilink/tab-session-api/internal/adapters/memstorage"
	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
)

func newScopeManager(store *memstorage.Store) *ScopeManager {
	return NewScopeManager(ScopeManagerOptions{
		Store:          store,
		MigrationGroup: domainauth.AllAuthKeys(),
	})
}

func TestTabScope_ReadMiss(t *testing.T) {
	ctx := context.Background()
	scope := newScopeManager(memstorage.New()).For("tab-1")

	_, ok := scope.Read(ctx, "access_token")
	assert.False(t, ok)
}

func TestTabScope_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	scope := newScopeManager(memstorage.New()).For("tab-1")

	require.NoError(t, scope.Write(ctx, "access_token", "tok-1"))

	value, ok := scope.Read(ctx, "access_token")
	assert.True(t, ok)
	assert.Equal(t, "tok-1", value)
}

func TestTabScope_WriteSeedsEmptySharedSlot(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()
	scope := newScopeManager(store).For("tab-1")

	require.NoError(t, scope.Write(ctx, "access_token", "tok-1"))

	value, ok, err := store.GetShared(ctx, "access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", value)
}

func TestTabScope_WriteNeverOverwritesSharedSlot(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()
	mgr := newScopeManager(store)

	require.NoError(t, mgr.For("tab-1").Write(ctx, "access_token", "first"))
	require.NoError(t, mgr.For("tab-2").Write(ctx, "access_token", "second"))

	// First writer's value persists until an explicit global clear.
	value, ok, err := store.GetShared(ctx, "access_token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", value)

	// Each tab still reads its own independent value.
	v1, _ := mgr.For("tab-1").Read(ctx, "access_token")
	v2, _ := mgr.For("tab-2").Read(ctx, "access_token")
	assert.Equal(t, "first", v1)
	assert.Equal(t, "second", v2)
}

func TestTabScope_FreshTabMigratesSharedValue(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()
	mgr := newScopeManager(store)

	require.NoError(t, mgr.For("tab-1").Write(ctx, "access_token", "tok-1"))

	// A brand-new tab inherits the shared value on first read.
	value, ok := mgr.For("tab-2").Read(ctx, "access_token")
	assert.True(t, ok)
	assert.Equal(t, "tok-1", value)

	// The migration copied the value into tab-2's own namespace.
	copied, ok, err := store.GetTab(ctx, "tab-2", "access_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", copied)
}

func TestTabScope_MigrationCarriesWholeGroup(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()
	mgr := newScopeManager(store)

	t1 := mgr.For("tab-1")
	require.NoError(t, t1.Write(ctx, "access_token", "tok-1"))
	require.NoError(t, t1.Write(ctx, "userRole", "farmer"))

	// First read in a fresh tab migrates the requested key and pulls the
	// rest of the group along, so token and role stay consistent.
	value, ok := mgr.For("tab-2").Read(ctx, "access_token")
	require.True(t, ok)
	assert.Equal(t, "tok-1", value)

	role, ok, err := store.GetTab(ctx, "tab-2", "userRole")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "farmer", role)
}

func TestTabScope_NoMigrationAfterEstablishedSession(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()
	mgr := newScopeManager(store)

	// tab-2 establishes its own session first.
	require.NoError(t, mgr.For("tab-2").Write(ctx, "userRole", "buyer"))

	// Later, tab-1's login seeds the shared token slot.
	require.NoError(t, mgr.For("tab-1").Write(ctx, "access_token", "tok-1"))

	// tab-2 must not inherit: it already owns a session.
	_, ok := mgr.For("tab-2").Read(ctx, "access_token")
	assert.False(t, ok)
}

func TestTabScope_MigrationObserver(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()

	var gotTab string
	var gotKeys []string
	mgr := NewScopeManager(ScopeManagerOptions{
		Store:          store,
		MigrationGroup: []string{"access_token", "userRole"},
		OnMigrate: func(_ context.Context, tabID string, keys []string) {
			gotTab = tabID
			gotKeys = keys
		},
	})

	t1 := mgr.For("tab-1")
	require.NoError(t, t1.Write(ctx, "access_token", "tok-1"))
	require.NoError(t, t1.Write(ctx, "userRole", "farmer"))

	_, ok := mgr.For("tab-2").Read(ctx, "access_token")
	require.True(t, ok)

	assert.Equal(t, "tab-2", gotTab)
	assert.ElementsMatch(t, []string{"access_token", "userRole"}, gotKeys)
}

func TestTabScope_LogoutGuardSuppressesEverything(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()
	mgr := newScopeManager(store)

	t1 := mgr.For("tab-1")
	require.NoError(t, t1.Write(ctx, "access_token", "tok-1"))
	require.NoError(t, t1.MarkLoggedOut(ctx))

	// Guard beats the tab's own slot and the shared slot.
	_, ok := t1.Read(ctx, "access_token")
	assert.False(t, ok)

	// Shared slot still holds the credential for other tabs.
	_, ok, err := store.GetShared(ctx, "access_token")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTabScope_WriteLiftsLogoutGuard(t *testing.T) {
	ctx := context.Background()
	mgr := newScopeManager(memstorage.New())

	t1 := mgr.For("tab-1")
	require.NoError(t, t1.MarkLoggedOut(ctx))
	_, ok := t1.Read(ctx, "access_token")
	require.False(t, ok)

	// A fresh write is an intentional new session.
	require.NoError(t, t1.Write(ctx, "access_token", "tok-2"))
	value, ok := t1.Read(ctx, "access_token")
	assert.True(t, ok)
	assert.Equal(t, "tok-2", value)
}

func TestTabScope_RemoveLeavesSharedSlot(t *testing.T) {
	ctx := context.Background()
	store := memstorage.New()
	mgr := newScopeManager(store)

	t1 := mgr.For("tab-1")
	require.NoError(t, t1.Write(ctx, "access_token", "tok-1"))
	require.NoError(t, t1.Remove(ctx, "access_token"))

	_, ok, err := store.GetTab(ctx, "tab-1", "access_token")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.GetShared(ctx, "access_token")
	require.NoError(t, err)
	assert.True(t, ok)
}
