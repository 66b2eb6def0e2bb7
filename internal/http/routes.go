package httpx

import (
	"log/slog"
	"net/http"

	"github.com/agrilink/tab-session-api/internal/service"
	"github.com/agrilink/tab-session-api/internal/tabid"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthStore
	Roles      *service.RoleResolver
	Navigation *service.NavigationGate
	Tabs       *tabid.Registry
	Audit      AuditReader  // optional; nil disables the audit endpoint
	Logger     *slog.Logger // Logger for HTTP access and panic logging (optional)
}

// NewRouter creates and configures a new HTTP router for the session API.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sessionHandlers := &SessionHandlers{Auth: services.Auth, Navigation: services.Navigation}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.HandleFunc("POST /session", sessionHandlers.Create)
	mux.HandleFunc("GET /session", sessionHandlers.Get)
	mux.HandleFunc("DELETE /session", sessionHandlers.Delete)
	mux.HandleFunc("DELETE /sessions", sessionHandlers.DeleteAll)
	mux.HandleFunc("POST /session/navigation", sessionHandlers.AllowNavigation)
	mux.HandleFunc("GET /session/redirect", sessionHandlers.Redirect)

	// Operator-facing audit trail, admin only.
	guard := GuardServices{Roles: services.Roles, Navigation: services.Navigation}
	auditHandlers := &AuditHandlers{Repo: services.Audit}
	mux.Handle("GET /audit/events", RequireRole(guard, "admin")(http.HandlerFunc(auditHandlers.List)))

	var handler http.Handler = mux
	handler = TabIdentity(services.Tabs)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)

	return handler
}
