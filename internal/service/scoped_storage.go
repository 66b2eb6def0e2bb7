package service

import (
	"context"
	"log/slog"

	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	"github.com/agrilink/tab-session-api/internal/ports"
)

const flagTrue = "true"

// ScopeManager hands out TabScope views over the backing storage, one per
// tab. It carries the migration group: the set of logical keys that move
// from the shared slot into a tab's namespace together on the tab's first
// read. Migrating the group atomically keeps multi-key state (token plus
// role plus user record) consistent inside the inheriting tab.
type ScopeManager struct {
	store        ports.Storage
	migrateGroup []string
	onMigrate    func(ctx context.Context, tabID string, keys []string)
	logger       *slog.Logger
}

// ScopeManagerOptions groups dependencies for NewScopeManager.
type ScopeManagerOptions struct {
	Store ports.Storage

	// MigrationGroup lists the logical keys copied from shared scope as a
	// unit when a fresh tab inherits a session. Empty means only the key
	// being read migrates.
	MigrationGroup []string

	// OnMigrate is invoked after a successful migration with the keys that
	// were copied. Optional; used for metrics and audit.
	OnMigrate func(ctx context.Context, tabID string, keys []string)

	Logger *slog.Logger
}

// NewScopeManager constructs a ScopeManager.
func NewScopeManager(opts ScopeManagerOptions) *ScopeManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScopeManager{
		store:        opts.Store,
		migrateGroup: opts.MigrationGroup,
		onMigrate:    opts.OnMigrate,
		logger:       logger,
	}
}

// For returns the scoped view for one tab.
func (m *ScopeManager) For(tabID string) *TabScope {
	return &TabScope{mgr: m, tabID: tabID}
}

// TabScope is the per-tab view over scoped storage. All reads and writes
// resolve logical keys to slots exclusive to this tab; the shared slot is
// touched only by first-read migration and by empty-slot seeding on write.
//
// Reads never surface backend errors: at an auth boundary a failing store
// must act as logged out, so errors degrade to "absent" and are logged.
type TabScope struct {
	mgr   *ScopeManager
	tabID string
}

// TabID returns the owning tab's identifier.
func (s *TabScope) TabID() string { return s.tabID }

// Read resolves a logical key for this tab.
//
// Precedence: the logout guard beats everything; then the tab-exclusive
// slot; then, only for a tab that has not yet established its own session,
// the shared slot, whose value is migrated into the tab on the way out.
func (s *TabScope) Read(ctx context.Context, key string) (string, bool) {
	if s.loggedOut(ctx) {
		return "", false
	}

	if value, ok := s.getTab(ctx, key); ok {
		return value, true
	}

	if s.hasEstablishedSession(ctx) {
		return "", false
	}

	value, ok, err := s.mgr.store.GetShared(ctx, key)
	if err != nil {
		s.warn(ctx, "shared slot read failed", key, err)
		return "", false
	}
	if !ok {
		return "", false
	}

	s.migrate(ctx, key, value)
	return value, true
}

// Write stores a value in the tab-exclusive slot. A write is an intentional
// fresh session: it marks the session established and lifts the logout
// guard. The shared slot is seeded only when currently empty, as a
// best-effort hand-off to sibling tabs opened later; an existing shared
// value is never overwritten.
func (s *TabScope) Write(ctx context.Context, key, value string) error {
	if err := s.mgr.store.SetTab(ctx, s.tabID, key, value); err != nil {
		return err
	}
	s.setFlag(ctx, domainauth.KeyHasSession)
	if err := s.mgr.store.DeleteTab(ctx, s.tabID, domainauth.KeyLoggedOut); err != nil {
		s.warn(ctx, "logout flag clear failed", domainauth.KeyLoggedOut, err)
	}

	if _, err := s.mgr.store.SetSharedIfAbsent(ctx, key, value); err != nil {
		s.warn(ctx, "shared slot seed failed", key, err)
	}
	return nil
}

// Remove deletes only the tab-exclusive slot. The shared slot is untouched
// so a tab-local logout cannot evict other tabs.
func (s *TabScope) Remove(ctx context.Context, key string) error {
	return s.mgr.store.DeleteTab(ctx, s.tabID, key)
}

// MarkLoggedOut raises the logout guard for this tab. Once set, reads in
// this tab return nothing until the next Write, shared state notwithstanding.
func (s *TabScope) MarkLoggedOut(ctx context.Context) error {
	return s.mgr.store.SetTab(ctx, s.tabID, domainauth.KeyLoggedOut, flagTrue)
}

// Clear wipes the tab's entire slot namespace, control flags included.
func (s *TabScope) Clear(ctx context.Context) error {
	return s.mgr.store.ClearTab(ctx, s.tabID)
}

// migrate copies the shared value for key into this tab, pulls the rest of
// the migration group along with it, and marks the session established so
// no further migration happens in this tab.
func (s *TabScope) migrate(ctx context.Context, key, value string) {
	migrated := []string{key}
	if err := s.mgr.store.SetTab(ctx, s.tabID, key, value); err != nil {
		s.warn(ctx, "migration copy failed", key, err)
		return
	}

	for _, groupKey := range s.mgr.migrateGroup {
		if groupKey == key {
			continue
		}
		groupValue, ok, err := s.mgr.store.GetShared(ctx, groupKey)
		if err != nil {
			s.warn(ctx, "migration group read failed", groupKey, err)
			continue
		}
		if !ok {
			continue
		}
		if err := s.mgr.store.SetTab(ctx, s.tabID, groupKey, groupValue); err != nil {
			s.warn(ctx, "migration group copy failed", groupKey, err)
			continue
		}
		migrated = append(migrated, groupKey)
	}

	s.setFlag(ctx, domainauth.KeyHasSession)

	if s.mgr.onMigrate != nil {
		s.mgr.onMigrate(ctx, s.tabID, migrated)
	}
}

func (s *TabScope) loggedOut(ctx context.Context) bool {
	value, ok := s.getTab(ctx, domainauth.KeyLoggedOut)
	return ok && value == flagTrue
}

func (s *TabScope) hasEstablishedSession(ctx context.Context) bool {
	value, ok := s.getTab(ctx, domainauth.KeyHasSession)
	return ok && value == flagTrue
}

func (s *TabScope) getTab(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.mgr.store.GetTab(ctx, s.tabID, key)
	if err != nil {
		s.warn(ctx, "tab slot read failed", key, err)
		return "", false
	}
	return value, ok
}

func (s *TabScope) setFlag(ctx context.Context, key string) {
	if err := s.mgr.store.SetTab(ctx, s.tabID, key, flagTrue); err != nil {
		s.warn(ctx, "flag write failed", key, err)
	}
}

func (s *TabScope) warn(ctx context.Context, msg, key string, err error) {
	s.mgr.logger.WarnContext(ctx, msg, "tab_id", s.tabID, "key", key, "error", err)
}
