package httpx

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/agrilink/tab-session-api/internal/data"
)

const maxAuditListLimit = 200 // Maximum number of audit events that can be requested in one call

// AuditReader lists recorded auth events. Satisfied by data.AuthEventRepo.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]data.AuthEventRow, error)
	ForTab(ctx context.Context, tabID string, limit int) ([]data.AuthEventRow, error)
}

// AuditHandlers provides HTTP handlers for the auth event audit trail.
type AuditHandlers struct {
	Repo AuditReader
}

// List handles HTTP requests to list recent auth events, optionally
// filtered to a single tab via the tab_id query parameter.
func (h *AuditHandlers) List(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotImplemented,
			ErrCode: "audit_disabled",
			Err:     errors.New("audit trail is not configured"),
		})
		return
	}

	limit := parseLimit(r, 50, maxAuditListLimit)

	var (
		events []data.AuthEventRow
		err    error
	)
	if tabID := r.URL.Query().Get("tab_id"); tabID != "" {
		events, err = h.Repo.ForTab(r.Context(), tabID, limit)
	} else {
		events, err = h.Repo.Recent(r.Context(), limit)
	}
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"events": events,
		"limit":  limit,
	})
}

func parseLimit(r *http.Request, def, maximum int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > maximum {
		return maximum
	}
	return limit
}
