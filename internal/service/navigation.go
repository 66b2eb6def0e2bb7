package service

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	apperrors "github.com/agrilink/tab-session-api/internal/errors"
	"github.com/agrilink/tab-session-api/internal/ports"
)

const defaultNavigationWindow = 5 * time.Second

// NavigationGate computes role-based landing routes and manages the
// short-lived navigation-allowed flag that lets one programmatic redirect
// through a role gate whose session has not fully established yet.
//
// The flag and its timestamp are tab-local control keys written directly to
// the store so they never participate in shared-slot seeding or migration.
type NavigationGate struct {
	store     ports.Storage
	clock     ports.Clock
	window    time.Duration
	loginPath string
	logger    *slog.Logger
}

// NavigationGateOptions groups dependencies for NewNavigationGate.
type NavigationGateOptions struct {
	Store ports.Storage
	Clock ports.Clock // optional, defaults to the system clock

	// Window bounds how long an AllowNavigation grant stays consumable.
	// Zero or negative falls back to the 5s default.
	Window time.Duration

	// LoginPath is the route login redirects target. Defaults to /login.
	LoginPath string

	Logger *slog.Logger
}

// NewNavigationGate constructs a NavigationGate.
func NewNavigationGate(opts NavigationGateOptions) *NavigationGate {
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock()
	}
	window := opts.Window
	if window <= 0 {
		window = defaultNavigationWindow
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = domainauth.DefaultRedirect
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NavigationGate{
		store:     opts.Store,
		clock:     clock,
		window:    window,
		loginPath: loginPath,
		logger:    logger,
	}
}

// RedirectForRole returns the landing route for a role string.
func (g *NavigationGate) RedirectForRole(role string) string {
	return domainauth.RedirectForRole(role)
}

// AllowNavigation grants the tab one navigation through a role gate within
// the configured window. The grant records the time it was made; expiry is
// enforced at consumption, never by the store.
func (g *NavigationGate) AllowNavigation(ctx context.Context, tabID string) error {
	now := g.clock.Now().UnixMilli()
	if err := g.store.SetTab(ctx, tabID, domainauth.KeyNavigationAllowed, flagTrue); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "write navigation flag")
	}
	if err := g.store.SetTab(ctx, tabID, domainauth.KeyNavigationTime, strconv.FormatInt(now, 10)); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "write navigation timestamp")
	}
	return nil
}

// ConsumeNavigation reports whether the tab holds an unexpired navigation
// grant, spending it either way: the flag permits exactly one navigation.
// Storage failures fail closed.
func (g *NavigationGate) ConsumeNavigation(ctx context.Context, tabID string) bool {
	flag, ok, err := g.store.GetTab(ctx, tabID, domainauth.KeyNavigationAllowed)
	if err != nil {
		g.logger.WarnContext(ctx, "navigation flag read failed", "tab_id", tabID, "error", err)
		return false
	}
	if !ok {
		return false
	}

	stamp, _, err := g.store.GetTab(ctx, tabID, domainauth.KeyNavigationTime)
	if err != nil {
		g.logger.WarnContext(ctx, "navigation timestamp read failed", "tab_id", tabID, "error", err)
		return false
	}

	g.spend(ctx, tabID)

	if flag != flagTrue {
		return false
	}
	grantedAt, err := strconv.ParseInt(stamp, 10, 64)
	if err != nil {
		return false
	}

	elapsed := g.clock.Now().Sub(time.UnixMilli(grantedAt))
	return elapsed >= 0 && elapsed <= g.window
}

// LoginRedirectURL builds the login route carrying the origin path as a
// return-to parameter, plus an optional user-facing message.
func (g *NavigationGate) LoginRedirectURL(from, message string) string {
	query := url.Values{}
	if from != "" {
		query.Set("returnTo", from)
	}
	if message != "" {
		query.Set("message", message)
	}
	if len(query) == 0 {
		return g.loginPath
	}
	return g.loginPath + "?" + query.Encode()
}

func (g *NavigationGate) spend(ctx context.Context, tabID string) {
	for _, key := range []string{domainauth.KeyNavigationAllowed, domainauth.KeyNavigationTime} {
		if err := g.store.DeleteTab(ctx, tabID, key); err != nil {
			g.logger.WarnContext(ctx, "navigation flag clear failed", "tab_id", tabID, "key", key, "error", err)
		}
	}
}
