package auth

// Landing routes by role. The table is keyed by normalized role so any
// historical spelling of a role resolves to the same route.

// DefaultRedirect is the landing route for unknown or missing roles.
const DefaultRedirect = "/login"

//nolint:gochecknoglobals // static read-only lookup for landing routes
var roleRedirects = map[Role]string{
	RoleSuperAdmin:   "/admin",
	RoleAdmin:        "/admin",
	RoleFarmer:       "/farmer-dashboard",
	RoleLandowner:    "/farmer-dashboard",
	RoleBuyer:        "/buyer-dashboard",
	RoleVendor:       "/vendor-dashboard",
	RoleCopilotAgent: "/copilot-dashboard",
	RoleLab:          "/lab-dashboard",
	RoleConsumer:     "/consumer-dashboard",
}

// RedirectForRole returns the landing route for a role string.
// Unrecognized roles fall back to DefaultRedirect.
func RedirectForRole(role string) string {
	r, ok := ParseRole(role)
	if !ok {
		return DefaultRedirect
	}
	return roleRedirects[r]
}
