package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrilink/tab-session-api/internal/data/pgxutil"
	apperrors "github.com/agrilink/tab-session-api/internal/errors"
	"github.com/agrilink/tab-session-api/internal/ports"
	"github.com/agrilink/tab-session-api/internal/service"
)

// authEventColumns defines the column list for auth event SELECT queries to ensure consistent field mapping.
const authEventColumns = `id, tab_id, kind, user_id, role, occurred_at, created_at`

// AuthEventRow is an auth event as stored in the audit trail.
type AuthEventRow struct {
	ID         string    `db:"id"          json:"id"`
	TabID      string    `db:"tab_id"      json:"tab_id"`
	Kind       string    `db:"kind"        json:"kind"`
	UserID     string    `db:"user_id"     json:"user_id,omitempty"`
	Role       string    `db:"role"        json:"role,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}

// AuthEventRepo persists the auth event audit trail in PostgreSQL.
type AuthEventRepo struct {
	DB    *sql.DB
	clock ports.Clock
}

var _ service.AuditRecorder = (*AuthEventRepo)(nil)

// NewAuthEventRepo creates a new AuthEventRepo instance with the given database connection.
func NewAuthEventRepo(db *sql.DB) *AuthEventRepo {
	return &AuthEventRepo{DB: db, clock: ports.SystemClock()}
}

// Record inserts one auth event. The event's OccurredAt is preserved;
// a zero value falls back to the repository clock.
func (r *AuthEventRepo) Record(ctx context.Context, evt service.AuthEvent) error {
	if evt.TabID == "" {
		return apperrors.ValidationField("tab_id", "tab_id is required")
	}
	if evt.Kind == "" {
		return apperrors.ValidationField("kind", "kind is required")
	}

	occurredAt := evt.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = r.clock.Now()
	}

	query := `
		INSERT INTO auth_events (tab_id, kind, user_id, role, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`

	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		_, execErr := pgxConn.Exec(ctx, query, evt.TabID, evt.Kind, evt.UserID, evt.Role, occurredAt)
		return execErr
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// Recent returns the newest audit events across all tabs, limited to limit rows.
func (r *AuthEventRepo) Recent(ctx context.Context, limit int) ([]AuthEventRow, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + authEventColumns + ` FROM auth_events ORDER BY occurred_at DESC LIMIT $1`
	return r.collectRows(ctx, query, limit)
}

// ForTab returns the audit trail for a single tab, newest first.
func (r *AuthEventRepo) ForTab(ctx context.Context, tabID string, limit int) ([]AuthEventRow, error) {
	if tabID == "" {
		return nil, apperrors.ValidationField("tab_id", "tab_id is required")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + authEventColumns + ` FROM auth_events WHERE tab_id = $1 ORDER BY occurred_at DESC LIMIT $2`
	return r.collectRows(ctx, query, tabID, limit)
}

func (r *AuthEventRepo) collectRows(ctx context.Context, query string, args ...any) ([]AuthEventRow, error) {
	var events []AuthEventRow
	err := pgxutil.WithPgxConn(ctx, r.DB, func(pgxConn *pgx.Conn) error {
		rows, err := pgxConn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		events, err = pgx.CollectRows(rows, pgx.RowToStructByName[AuthEventRow])
		return err
	})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return events, nil
}
