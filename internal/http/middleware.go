package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/agrilink/tab-session-api/internal/service"
	"github.com/agrilink/tab-session-api/internal/tabid"
)

// HeaderTabID carries the client's tab identity on every request and response.
const HeaderTabID = "X-Tab-ID"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("tab_id", TabIDFromContext(r.Context())),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// TabIdentity returns a middleware that resolves the request's tab identity.
// A client-provided X-Tab-ID is honored as-is; otherwise a fresh id is issued.
// The resolved id is echoed back in the response header and stored in the
// request context for handlers downstream.
func TabIdentity(registry *tabid.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := registry.Ensure(r.Context(), r.Header.Get(HeaderTabID))
			w.Header().Set(HeaderTabID, id)

			ctx := SetTabIDInContext(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GuardServices holds the collaborators consulted by the RequireRole guard.
type GuardServices struct {
	Roles      *service.RoleResolver
	Navigation *service.NavigationGate
}

// RequireRole returns a middleware that requires a specific role for a route.
// A recently approved navigation is honored once before the role check rejects,
// matching the navigation-window escape hatch of the session protocol.
func RequireRole(svcs GuardServices, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tabID, ok := GetTabIDFromContext(r.Context())
			if !ok {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "tab_identity_required",
					Err:     errors.New("tab identity required"),
				})
				return
			}

			if svcs.Roles.HasRequiredRole(r.Context(), tabID, requiredRole) {
				next.ServeHTTP(w, r)
				return
			}

			// An approved navigation window lets exactly one request through.
			if svcs.Navigation != nil && svcs.Navigation.ConsumeNavigation(r.Context(), tabID) {
				next.ServeHTTP(w, r)
				return
			}

			writeGuardRejection(w, r, svcs, tabID)
		})
	}
}

func writeGuardRejection(w http.ResponseWriter, r *http.Request, svcs GuardServices, tabID string) {
	code := http.StatusUnauthorized
	errCode := "authentication_required"
	message := "authentication required"
	if svcs.Roles.IsAuthenticated(r.Context(), tabID) {
		code = http.StatusForbidden
		errCode = "insufficient_permissions"
		message = "insufficient permissions"
	}

	body := map[string]any{
		"error":   errCode,
		"message": message,
	}
	if svcs.Navigation != nil {
		body["redirect"] = svcs.Navigation.LoginRedirectURL(r.URL.Path, message)
	}
	WriteJSON(w, code, body)
}
