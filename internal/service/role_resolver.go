package service

import (
	"context"

	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
)

// RoleResolver answers role gates for a tab against its current auth state.
type RoleResolver struct {
	store *AuthStore
}

// NewRoleResolver constructs a RoleResolver over the auth store.
func NewRoleResolver(store *AuthStore) *RoleResolver {
	return &RoleResolver{store: store}
}

// HasRequiredRole reports whether the tab's current role satisfies the
// required one. No resolvable role fails closed. The two administrative
// roles satisfy every gate. Everything else compares by normalized
// equality, so separator and casing drift between producers is tolerated.
func (r *RoleResolver) HasRequiredRole(ctx context.Context, tabID, required string) bool {
	current := r.store.Role(ctx, tabID)
	if current == "" {
		return false
	}

	if parsed, ok := domainauth.ParseRole(string(current)); ok && parsed.IsAdmin() {
		return true
	}

	return domainauth.RolesEquivalent(string(current), required)
}

// IsAuthenticated reports whether the tab currently holds a usable credential.
func (r *RoleResolver) IsAuthenticated(ctx context.Context, tabID string) bool {
	return r.store.IsAuthenticated(ctx, tabID)
}
