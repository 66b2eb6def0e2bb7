package auth

// Logical storage keys for auth state. Several concepts carry legacy key
// aliases written by older client builds; readers probe aliases in the
// declared priority order and writers keep all aliases populated so a
// downgrade does not lose the session.

const (
	// KeyAccessToken is the primary token key.
	KeyAccessToken = "access_token"
	// KeyToken and KeyAuthToken are legacy token aliases.
	KeyToken     = "token"
	KeyAuthToken = "authToken"

	// KeyUserRole is the primary role key; KeyUserType and KeyUserTypeSnake
	// are legacy aliases.
	KeyUserRole      = "userRole"
	KeyUserType      = "userType"
	KeyUserTypeSnake = "user_type"

	// KeyUser is the primary serialized user record key; KeyUserData is the
	// legacy alias.
	KeyUser     = "user"
	KeyUserData = "userData"

	// KeyIsLoggedIn is a convenience marker for older consumers that only
	// check a boolean.
	KeyIsLoggedIn = "isLoggedIn"
)

// Tab-local control keys. These never participate in shared-slot seeding or
// migration; they describe the tab itself, not the session it carries.
const (
	KeyTabID             = "_tab_id"
	KeyLoggedOut         = "_logged_out"
	KeyHasSession        = "_has_session"
	KeyNavigationAllowed = "navigation_allowed"
	KeyNavigationTime    = "navigation_time"
)

// TokenKeys returns the token aliases in read priority order.
func TokenKeys() []string {
	return []string{KeyAccessToken, KeyToken, KeyAuthToken}
}

// RoleKeys returns the role aliases in read priority order.
func RoleKeys() []string {
	return []string{KeyUserRole, KeyUserType, KeyUserTypeSnake}
}

// UserKeys returns the user record aliases in read priority order.
func UserKeys() []string {
	return []string{KeyUser, KeyUserData}
}

// AllAuthKeys returns every logical key that holds auth state, used by
// logout and global wipe to clear the full credential footprint.
func AllAuthKeys() []string {
	return []string{
		KeyAccessToken, KeyToken, KeyAuthToken,
		KeyUserRole, KeyUserType, KeyUserTypeSnake,
		KeyUser, KeyUserData,
		KeyIsLoggedIn,
	}
}

// EventAuthDataChanged is the event name published whenever a tab's auth
// state changes (login, logout, global wipe).
const EventAuthDataChanged = "authDataChanged"
