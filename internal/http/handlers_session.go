// Package httpx provides the HTTP surface of the tab session service.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	apperrors "github.com/agrilink/tab-session-api/internal/errors"
	"github.com/agrilink/tab-session-api/internal/service"
)

// SessionHandlers provides HTTP handlers for tab session operations.
type SessionHandlers struct {
	Auth       *service.AuthStore
	Navigation *service.NavigationGate
}

// createSessionRequest is the payload delivered after a successful login
// flow. The user object is kept raw so historical field spellings pass
// through to the same alias normalization persisted blobs get.
type createSessionRequest struct {
	User  json.RawMessage `json:"user"`
	Token string          `json:"token"`
}

// sessionResponse describes the current tab's auth record.
type sessionResponse struct {
	TabID         string                 `json:"tab_id"`
	Authenticated bool                   `json:"authenticated"`
	TokenPresent  bool                   `json:"token_present"`
	Role          *string                `json:"role"`
	User          *domainauth.UserRecord `json:"user,omitempty"`
}

// Create stores the login result for the current tab.
func (h *SessionHandlers) Create(w http.ResponseWriter, r *http.Request) {
	tabID, ok := GetTabIDFromContext(r.Context())
	if !ok {
		writeMissingTabID(w)
		return
	}

	var req createSessionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	user := service.ParseUserPayload(req.User)
	if user == nil {
		WriteAppError(w, apperrors.ValidationField("user", "user must be a JSON object"))
		return
	}

	if err := h.Auth.SetAuthData(r.Context(), tabID, *user, req.Token); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]string{"tab_id": tabID})
}

// Get returns the current tab's auth record.
//
// A tab holding a token it cannot act on (no resolvable role) still reads
// as unauthenticated; token_present lets clients clarify messaging without
// weakening the gate.
func (h *SessionHandlers) Get(w http.ResponseWriter, r *http.Request) {
	tabID, ok := GetTabIDFromContext(r.Context())
	if !ok {
		writeMissingTabID(w)
		return
	}

	record := h.Auth.Record(r.Context(), tabID)

	resp := sessionResponse{
		TabID:         tabID,
		Authenticated: record.IsAuthenticated(),
		TokenPresent:  record.Token != "",
		User:          record.User,
	}
	if record.Role != "" {
		role := string(record.Role)
		resp.Role = &role
	}

	WriteJSON(w, http.StatusOK, resp)
}

// Delete logs the current tab out. Other tabs keep their sessions.
func (h *SessionHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	tabID, ok := GetTabIDFromContext(r.Context())
	if !ok {
		writeMissingTabID(w)
		return
	}

	if err := h.Auth.ClearAuth(r.Context(), tabID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// DeleteAll signs out globally: shared slots and the current tab's namespace.
func (h *SessionHandlers) DeleteAll(w http.ResponseWriter, r *http.Request) {
	tabID, ok := GetTabIDFromContext(r.Context())
	if !ok {
		writeMissingTabID(w)
		return
	}

	if err := h.Auth.ClearAllAuth(r.Context(), tabID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// AllowNavigation opens the one-shot navigation window for the current tab.
func (h *SessionHandlers) AllowNavigation(w http.ResponseWriter, r *http.Request) {
	tabID, ok := GetTabIDFromContext(r.Context())
	if !ok {
		writeMissingTabID(w)
		return
	}

	if err := h.Navigation.AllowNavigation(r.Context(), tabID); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "allowed"})
}

// Redirect returns the landing route for the current tab's role.
// Unauthenticated tabs are pointed at the login path.
func (h *SessionHandlers) Redirect(w http.ResponseWriter, r *http.Request) {
	tabID, ok := GetTabIDFromContext(r.Context())
	if !ok {
		writeMissingTabID(w)
		return
	}

	role := h.Auth.Role(r.Context(), tabID)
	WriteJSON(w, http.StatusOK, map[string]string{
		"redirect": h.Navigation.RedirectForRole(string(role)),
	})
}

func writeMissingTabID(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "tab_identity_required",
		Err:     errors.New("tab identity required"),
	})
}
