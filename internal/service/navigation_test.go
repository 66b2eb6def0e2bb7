package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrilink/tab-session-api/internal/adapters/memstorage"
	"github.com/agrilink/tab-session-api/internal/ports"
)

// fakeClock is a mutable clock for window-expiry tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newGateFixture(window time.Duration) (*NavigationGate, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	gate := NewNavigationGate(NavigationGateOptions{
		Store:  memstorage.New(),
		Clock:  clock,
		Window: window,
	})
	return gate, clock
}

func TestNavigationGate_GrantAndConsume(t *testing.T) {
	ctx := context.Background()
	gate, clock := newGateFixture(5 * time.Second)

	require.NoError(t, gate.AllowNavigation(ctx, "tab-1"))
	clock.advance(2 * time.Second)

	assert.True(t, gate.ConsumeNavigation(ctx, "tab-1"))

	// The grant permits exactly one navigation.
	assert.False(t, gate.ConsumeNavigation(ctx, "tab-1"))
}

func TestNavigationGate_GrantExpires(t *testing.T) {
	ctx := context.Background()
	gate, clock := newGateFixture(5 * time.Second)

	require.NoError(t, gate.AllowNavigation(ctx, "tab-1"))
	clock.advance(6 * time.Second)

	assert.False(t, gate.ConsumeNavigation(ctx, "tab-1"))
}

func TestNavigationGate_GrantIsTabLocal(t *testing.T) {
	ctx := context.Background()
	gate, _ := newGateFixture(5 * time.Second)

	require.NoError(t, gate.AllowNavigation(ctx, "tab-1"))

	assert.False(t, gate.ConsumeNavigation(ctx, "tab-2"))
	assert.True(t, gate.ConsumeNavigation(ctx, "tab-1"))
}

func TestNavigationGate_NoGrant(t *testing.T) {
	gate, _ := newGateFixture(5 * time.Second)

	assert.False(t, gate.ConsumeNavigation(context.Background(), "tab-1"))
}

func TestNavigationGate_RedirectForRole(t *testing.T) {
	gate := NewNavigationGate(NavigationGateOptions{Store: memstorage.New()})

	assert.Equal(t, "/admin", gate.RedirectForRole("super-admin"))
	assert.Equal(t, "/farmer-dashboard", gate.RedirectForRole("landowner"))
	assert.Equal(t, "/login", gate.RedirectForRole("interloper"))
}

func TestNavigationGate_LoginRedirectURL(t *testing.T) {
	gate := NewNavigationGate(NavigationGateOptions{
		Store:     memstorage.New(),
		LoginPath: "/login",
	})

	assert.Equal(t, "/login", gate.LoginRedirectURL("", ""))
	assert.Equal(t, "/login?returnTo=%2Forders%2F42", gate.LoginRedirectURL("/orders/42", ""))

	full := gate.LoginRedirectURL("/orders", "session expired")
	assert.Contains(t, full, "returnTo=%2Forders")
	assert.Contains(t, full, "message=session+expired")
}

func TestNavigationGate_DefaultsApplied(t *testing.T) {
	gate := NewNavigationGate(NavigationGateOptions{Store: memstorage.New()})

	assert.Equal(t, defaultNavigationWindow, gate.window)
	assert.Equal(t, "/login", gate.loginPath)
	assert.NotNil(t, gate.clock)
}

var _ ports.Clock = (*fakeClock)(nil)
