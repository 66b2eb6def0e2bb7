// Package auth contains domain-level types for per-tab authentication state.
// It is pure and free of framework/adapter concerns.
package auth

import "strings"

// Role represents a stakeholder role on the platform.
// Keep string form for easy persistence and transport.
// Valid values are defined as constants below.
type Role string

const (
	RoleFarmer       Role = "farmer"
	RoleLandowner    Role = "landowner"
	RoleVendor       Role = "vendor"
	RoleBuyer        Role = "buyer"
	RoleCopilotAgent Role = "copilot-agent"
	RoleConsumer     Role = "consumer"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super-admin"
	RoleLab          Role = "lab"
)

// knownRoles indexes the closed role set by normalized form.
//
//nolint:gochecknoglobals // static read-only lookup; avoids rebuilding per call
var knownRoles = func() map[string]Role {
	roles := []Role{
		RoleFarmer, RoleLandowner, RoleVendor, RoleBuyer, RoleCopilotAgent,
		RoleConsumer, RoleAdmin, RoleSuperAdmin, RoleLab,
	}
	m := make(map[string]Role, len(roles))
	for _, r := range roles {
		m[NormalizeRole(string(r))] = r
	}
	return m
}()

// NormalizeRole lowercases a role string and strips separator characters.
// Different producers historically wrote the same logical role with
// different separators ("copilot-agent", "copilot_agent", "Copilot Agent");
// comparisons must happen on the normalized form.
func NormalizeRole(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ', '\t':
			return -1
		default:
			return r
		}
	}, s)
}

// ParseRole resolves an arbitrary role string against the closed role set.
// Returns the canonical Role and true when the normalized form is known.
func ParseRole(s string) (Role, bool) {
	r, ok := knownRoles[NormalizeRole(s)]
	return r, ok
}

// RolesEquivalent reports whether two role strings name the same logical role
// after normalization.
func RolesEquivalent(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	return NormalizeRole(a) == NormalizeRole(b)
}

// IsAdmin reports whether the role is one of the two administrative roles.
// Administrative roles satisfy every role gate.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// UserRecord is the persisted user profile attached to a session.
// Name and Phone are optional and may be absent in older records.
type UserRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// AuthRecord is the full authentication state visible to one tab.
// A session is authenticated iff both a non-empty token and a resolvable
// role are present; partial records are unauthenticated.
type AuthRecord struct {
	Token string      `json:"token"`
	User  *UserRecord `json:"user,omitempty"`
	Role  Role        `json:"role,omitempty"`
}

// IsAuthenticated applies the all-or-nothing invariant.
func (a AuthRecord) IsAuthenticated() bool {
	return a.Token != "" && a.Role != ""
}
