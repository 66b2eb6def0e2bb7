// Package ports defines interfaces (hexagonal ports) for tab-session behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"time"
)

// Storage is the key/value backing store for per-tab and shared session
// slots. Tab slots are single-writer (only the owning tab writes them);
// the shared slot is multi-writer but append-only in practice because the
// only shared write is SetSharedIfAbsent.
//
// Missing keys read as ("", false, nil); an error return means the backend
// itself failed, and callers at the auth boundary must fail closed.
type Storage interface {
	// GetTab reads a tab-exclusive slot.
	GetTab(ctx context.Context, tabID, key string) (value string, ok bool, err error)

	// SetTab writes a tab-exclusive slot.
	SetTab(ctx context.Context, tabID, key, value string) error

	// DeleteTab removes a single tab-exclusive slot.
	DeleteTab(ctx context.Context, tabID, key string) error

	// ClearTab removes every slot owned by the tab, control keys included.
	ClearTab(ctx context.Context, tabID string) error

	// GetShared reads the cross-tab shared slot for a logical key.
	GetShared(ctx context.Context, key string) (value string, ok bool, err error)

	// SetSharedIfAbsent seeds the shared slot only when it is currently
	// empty. Returns true when this call performed the write. Whichever
	// writer lands first wins; later writers are no-ops, which is what
	// makes concurrent seeding from multiple tabs race-tolerant.
	SetSharedIfAbsent(ctx context.Context, key, value string) (bool, error)

	// DeleteShared removes the shared slot for a logical key.
	DeleteShared(ctx context.Context, key string) error
}

// Event is the payload broadcast when a tab's auth state changes.
type Event struct {
	Name  string `json:"name"`
	TabID string `json:"tabId"`
}

// EventBus fans auth-change events out to in-process subscribers.
// Delivery is synchronous and best-effort: a subscriber registered after an
// event was published never sees it, so consumers re-read the store on
// mount instead of relying on having caught every event.
type EventBus interface {
	Publish(ctx context.Context, evt Event)

	// Subscribe registers a handler and returns a function that removes it.
	Subscribe(handler func(Event)) (unsubscribe func())
}

// Clock supplies the current time; a seam for tests of time-bounded state
// such as the navigation-allowed window.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}
