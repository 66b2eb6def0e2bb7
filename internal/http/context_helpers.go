package httpx

import "context"

// tabIDKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type tabIDKey struct{}

// SetTabIDInContext returns a child context that carries the given tab identity.
// If tabID is empty, the original ctx is returned unchanged.
func SetTabIDInContext(ctx context.Context, tabID string) context.Context {
	if tabID == "" {
		return ctx
	}
	return context.WithValue(ctx, tabIDKey{}, tabID)
}

// GetTabIDFromContext returns the tab identity from context and a boolean indicating presence.
func GetTabIDFromContext(ctx context.Context) (string, bool) {
	if id, ok := ctx.Value(tabIDKey{}).(string); ok && id != "" {
		return id, true
	}
	return "", false
}

// TabIDFromContext retrieves the tab identity from the request context.
// Maintained for convenience; prefer GetTabIDFromContext when you need presence info.
func TabIDFromContext(ctx context.Context) string {
	if id, ok := GetTabIDFromContext(ctx); ok {
		return id
	}
	return ""
}
