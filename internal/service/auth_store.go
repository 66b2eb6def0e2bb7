package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	apperrors "github.com/agrilink/tab-session-api/internal/errors"
	"github.com/agrilink/tab-session-api/internal/observability/statsd"
	"github.com/agrilink/tab-session-api/internal/ports"
)

// Audit event kinds recorded by the auth store.
const (
	AuthEventLogin     = "login"
	AuthEventLogout    = "logout"
	AuthEventWipe      = "wipe"
	AuthEventMigration = "migration"
)

// AuthEvent captures one auth state transition for the audit trail.
type AuthEvent struct {
	TabID      string
	Kind       string
	UserID     string
	Role       string
	OccurredAt time.Time
}

// AuditRecorder persists auth events. The data layer provides the
// PostgreSQL implementation; a nil recorder disables auditing.
type AuditRecorder interface {
	Record(ctx context.Context, evt AuthEvent) error
}

// AuthStore governs the per-tab auth record: the credential token, the user
// profile, and the role, stored under their primary and legacy key aliases.
type AuthStore struct {
	scopes  *ScopeManager
	bus     ports.EventBus
	metrics statsd.Sink
	audit   AuditRecorder
	clock   ports.Clock
	logger  *slog.Logger
}

// AuthStoreOptions bundles dependencies for NewAuthStore.
type AuthStoreOptions struct {
	Scopes  *ScopeManager
	Bus     ports.EventBus
	Metrics statsd.Sink   // optional
	Audit   AuditRecorder // optional
	Clock   ports.Clock   // optional, defaults to the system clock
	Logger  *slog.Logger
}

// NewAuthStore constructs an AuthStore.
func NewAuthStore(opts AuthStoreOptions) *AuthStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock()
	}
	return &AuthStore{
		scopes:  opts.Scopes,
		bus:     opts.Bus,
		metrics: opts.Metrics,
		audit:   opts.Audit,
		clock:   clock,
		logger:  logger,
	}
}

// Token returns the credential token visible to the tab, probing the legacy
// aliases in priority order. Empty means no token.
func (s *AuthStore) Token(ctx context.Context, tabID string) string {
	scope := s.scopes.For(tabID)
	for _, key := range domainauth.TokenKeys() {
		if value, ok := scope.Read(ctx, key); ok && value != "" {
			return value
		}
	}
	return ""
}

// User returns the tab's user record, or nil when absent. A record that
// fails to deserialize counts as absent; corrupt persisted data must never
// crash an auth check.
func (s *AuthStore) User(ctx context.Context, tabID string) *domainauth.UserRecord {
	scope := s.scopes.For(tabID)
	for _, key := range domainauth.UserKeys() {
		raw, ok := scope.Read(ctx, key)
		if !ok || raw == "" {
			continue
		}
		user := decodeUserRecord(raw)
		if user == nil {
			s.logger.WarnContext(ctx, "malformed user record, treating as absent", "tab_id", tabID, "key", key)
			continue
		}
		return user
	}
	return nil
}

// Role returns the tab's role: the direct role keys first, then the role
// embedded in the user record. The raw stored spelling is preserved so
// historical separator variants still compare as equivalent downstream.
func (s *AuthStore) Role(ctx context.Context, tabID string) domainauth.Role {
	scope := s.scopes.For(tabID)
	for _, key := range domainauth.RoleKeys() {
		if value, ok := scope.Read(ctx, key); ok && value != "" {
			return domainauth.Role(value)
		}
	}

	if user := s.User(ctx, tabID); user != nil && user.Role != "" {
		return domainauth.Role(user.Role)
	}
	return ""
}

// Record assembles the full auth record visible to the tab.
func (s *AuthStore) Record(ctx context.Context, tabID string) domainauth.AuthRecord {
	return domainauth.AuthRecord{
		Token: s.Token(ctx, tabID),
		User:  s.User(ctx, tabID),
		Role:  s.Role(ctx, tabID),
	}
}

// IsAuthenticated reports whether the tab holds both a token and a
// resolvable role. Partial records are unauthenticated.
func (s *AuthStore) IsAuthenticated(ctx context.Context, tabID string) bool {
	return s.Record(ctx, tabID).IsAuthenticated()
}

// SetAuthData records a completed login for the tab: the user record, the
// token under its primary and legacy aliases, the role, and the logged-in
// marker. Subscribers are notified once the record is in place.
func (s *AuthStore) SetAuthData(ctx context.Context, tabID string, user domainauth.UserRecord, token string) error {
	if token == "" {
		return apperrors.ValidationField("token", "token is required")
	}
	if user.ID == "" {
		return apperrors.ValidationField("user.id", "user id is required")
	}
	if _, known := domainauth.ParseRole(user.Role); !known && user.Role != "" {
		s.logger.WarnContext(ctx, "unrecognized role on login", "tab_id", tabID, "role", user.Role)
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal user record")
	}

	scope := s.scopes.For(tabID)
	writes := map[string]string{
		domainauth.KeyUser:       string(userJSON),
		domainauth.KeyUserData:   string(userJSON),
		domainauth.KeyIsLoggedIn: flagTrue,
	}
	for _, key := range domainauth.TokenKeys() {
		writes[key] = token
	}
	if user.Role != "" {
		for _, key := range domainauth.RoleKeys() {
			writes[key] = user.Role
		}
	}
	for key, value := range writes {
		if err := scope.Write(ctx, key, value); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "write auth slot %q", key)
		}
	}
	if user.Role == "" {
		// A roleless login must not read under a previous session's role.
		for _, key := range domainauth.RoleKeys() {
			if err := scope.Remove(ctx, key); err != nil {
				return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "remove auth slot %q", key)
			}
		}
	}

	s.notify(ctx, tabID)
	s.count(ctx, "auth.login", map[string]string{"role": domainauth.NormalizeRole(user.Role)})
	s.record(ctx, AuthEvent{TabID: tabID, Kind: AuthEventLogin, UserID: user.ID, Role: user.Role})
	return nil
}

// ClearAuth logs the tab out: every tab-exclusive auth slot is removed and
// the logout guard is raised so shared state cannot resurrect the
// credential in this tab. Other tabs are unaffected.
func (s *AuthStore) ClearAuth(ctx context.Context, tabID string) error {
	scope := s.scopes.For(tabID)
	for _, key := range domainauth.AllAuthKeys() {
		if err := scope.Remove(ctx, key); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "remove auth slot %q", key)
		}
	}
	if err := scope.MarkLoggedOut(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "mark tab logged out")
	}

	s.notify(ctx, tabID)
	s.count(ctx, "auth.logout", nil)
	s.record(ctx, AuthEvent{TabID: tabID, Kind: AuthEventLogout})
	return nil
}

// ClearAllAuth is the full sign-out: shared slots for every auth key are
// deleted so no tab, current or future, can migrate a stale credential, and
// the calling tab's entire namespace is wiped. Strictly stronger than
// ClearAuth and intentionally destructive.
func (s *AuthStore) ClearAllAuth(ctx context.Context, tabID string) error {
	scope := s.scopes.For(tabID)
	for _, key := range domainauth.AllAuthKeys() {
		if err := s.scopes.store.DeleteShared(ctx, key); err != nil {
			return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "delete shared slot %q", key)
		}
	}
	if err := scope.Clear(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "clear tab namespace")
	}
	if err := scope.MarkLoggedOut(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "mark tab logged out")
	}

	s.notify(ctx, tabID)
	s.count(ctx, "auth.wipe", nil)
	s.record(ctx, AuthEvent{TabID: tabID, Kind: AuthEventWipe})
	return nil
}

func (s *AuthStore) notify(ctx context.Context, tabID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, ports.Event{Name: domainauth.EventAuthDataChanged, TabID: tabID})
}

func (s *AuthStore) count(_ context.Context, name string, tags map[string]string) {
	if s.metrics == nil {
		return
	}
	s.metrics.Count(name, 1, tags)
}

func (s *AuthStore) record(ctx context.Context, evt AuthEvent) {
	if s.audit == nil {
		return
	}
	evt.OccurredAt = s.clock.Now()
	if err := s.audit.Record(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "audit record failed", "tab_id", evt.TabID, "kind", evt.Kind, "error", err)
	}
}

// userFieldExprs maps canonical user fields to the JMESPath expression that
// probes every historical spelling. Normalization happens here, once, at
// the read boundary.
//
//nolint:gochecknoglobals // static read-only lookup of alias expressions
var userFieldExprs = map[string]string{
	"id":    "id || _id || userId",
	"email": "email || emailAddress",
	"role":  "role || userRole || userType || user_type",
	"name":  "name || fullName",
	"phone": "phone || phoneNumber || mobile",
}

// ParseUserPayload maps a login payload's user object onto the canonical
// record, accepting the same historical field spellings tolerated for
// persisted blobs. Returns nil when the payload is not a JSON object.
func ParseUserPayload(raw []byte) *domainauth.UserRecord {
	if len(raw) == 0 {
		return nil
	}
	return decodeUserRecord(string(raw))
}

// decodeUserRecord deserializes a persisted user blob, mapping every known
// historical field alias onto the canonical record. Returns nil for
// malformed JSON or for blobs that are not objects.
func decodeUserRecord(raw string) *domainauth.UserRecord {
	var blob any
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil
	}
	if _, ok := blob.(map[string]any); !ok {
		return nil
	}

	fields := make(map[string]string, len(userFieldExprs))
	for field, expr := range userFieldExprs {
		result, err := jmespath.Search(expr, blob)
		if err != nil {
			continue
		}
		if value, ok := result.(string); ok {
			fields[field] = value
		}
	}

	return &domainauth.UserRecord{
		ID:    fields["id"],
		Email: fields["email"],
		Role:  fields["role"],
		Name:  fields["name"],
		Phone: fields["phone"],
	}
}
