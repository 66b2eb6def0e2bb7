package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrilink/tab-session-api/internal/data"
)

type fakeAuditReader struct {
	events []data.AuthEventRow

	lastLimit int
	lastTabID string
}

func (f *fakeAuditReader) Recent(_ context.Context, limit int) ([]data.AuthEventRow, error) {
	f.lastLimit = limit
	return f.events, nil
}

func (f *fakeAuditReader) ForTab(_ context.Context, tabID string, limit int) ([]data.AuthEventRow, error) {
	f.lastTabID = tabID
	f.lastLimit = limit
	return f.events, nil
}

func TestAuditHandlers_List(t *testing.T) {
	reader := &fakeAuditReader{events: []data.AuthEventRow{
		{ID: "e-1", TabID: "tab-1", Kind: "login", OccurredAt: time.Now()},
	}}
	h := &AuditHandlers{Repo: reader}

	t.Run("recent events", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/audit/events", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Len(t, body["events"], 1)
		assert.Equal(t, 50, reader.lastLimit)
	})

	t.Run("tab filter and limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/audit/events?tab_id=tab-1&limit=5", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tab-1", reader.lastTabID)
		assert.Equal(t, 5, reader.lastLimit)
	})

	t.Run("limit clamped to maximum", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/audit/events?limit=10000", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, maxAuditListLimit, reader.lastLimit)
	})

	t.Run("nil repo responds not implemented", func(t *testing.T) {
		disabled := &AuditHandlers{}
		req := httptest.NewRequest(http.MethodGet, "/audit/events", nil)
		rec := httptest.NewRecorder()
		disabled.List(rec, req)

		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	})
}
