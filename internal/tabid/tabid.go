// Package tabid assigns stable opaque identifiers to browser tabs.
// Uniqueness is the contract, not unpredictability: the id only namespaces
// storage slots, it is never an authentication factor.
package tabid

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	"github.com/agrilink/tab-session-api/internal/ports"
)

// New generates a fresh tab id from the current time plus a random suffix.
func New() string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("tab-%d-%s", time.Now().UnixMilli(), suffix)
}

// Registry persists each tab's id under its own namespace so operator
// tooling can see which tabs exist, and callers get the same id back for
// the lifetime of the tab.
type Registry struct {
	store  ports.Storage
	logger *slog.Logger
}

// NewRegistry creates a Registry. A nil logger falls back to slog.Default.
func NewRegistry(store ports.Storage, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, logger: logger}
}

// Ensure returns the tab id to use for a request. An empty candidate gets a
// freshly generated id. The id is recorded in the tab's own namespace; when
// the backing store is unavailable the id is still returned, the tab just
// loses stability across restarts of the store. Ensure never fails.
func (r *Registry) Ensure(ctx context.Context, candidate string) string {
	id := strings.TrimSpace(candidate)
	if id == "" {
		id = New()
	}

	if _, ok, err := r.store.GetTab(ctx, id, domainauth.KeyTabID); err != nil {
		r.logger.WarnContext(ctx, "tab id lookup failed, continuing unregistered", "tab_id", id, "error", err)
		return id
	} else if ok {
		return id
	}

	if err := r.store.SetTab(ctx, id, domainauth.KeyTabID, id); err != nil {
		r.logger.WarnContext(ctx, "tab id registration failed, continuing unregistered", "tab_id", id, "error", err)
	}
	return id
}
