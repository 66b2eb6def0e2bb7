package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agrilink/tab-session-api/internal/errors"
	"github.com/agrilink/tab-session-api/internal/service"
	"github.com/agrilink/tab-session-api/internal/testutil"
)

func TestAuthEventRepo_Record(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAuthEventRepo(db)
	ctx := context.Background()

	t.Run("successful insert", func(t *testing.T) {
		occurred := time.Now().UTC().Truncate(time.Millisecond)
		err := repo.Record(ctx, service.AuthEvent{
			TabID:      "tab-1-abc",
			Kind:       service.AuthEventLogin,
			UserID:     "farmer-42",
			Role:       "farmer",
			OccurredAt: occurred,
		})
		require.NoError(t, err)

		events, err := repo.ForTab(ctx, "tab-1-abc", 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "tab-1-abc", events[0].TabID)
		assert.Equal(t, service.AuthEventLogin, events[0].Kind)
		assert.Equal(t, "farmer-42", events[0].UserID)
		assert.Equal(t, "farmer", events[0].Role)
		assert.WithinDuration(t, occurred, events[0].OccurredAt, time.Second)
		assert.NotEmpty(t, events[0].ID)
	})

	t.Run("zero occurred_at falls back to now", func(t *testing.T) {
		err := repo.Record(ctx, service.AuthEvent{TabID: "tab-2-def", Kind: service.AuthEventLogout})
		require.NoError(t, err)

		events, err := repo.ForTab(ctx, "tab-2-def", 10)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.WithinDuration(t, time.Now(), events[0].OccurredAt, 5*time.Second)
	})

	t.Run("missing tab_id rejected", func(t *testing.T) {
		err := repo.Record(ctx, service.AuthEvent{Kind: service.AuthEventLogin})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown kind rejected by check constraint", func(t *testing.T) {
		err := repo.Record(ctx, service.AuthEvent{TabID: "tab-3-ghi", Kind: "promotion"})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestAuthEventRepo_Recent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewAuthEventRepo(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	kinds := []string{
		service.AuthEventLogin,
		service.AuthEventMigration,
		service.AuthEventLogout,
		service.AuthEventWipe,
	}
	for i, kind := range kinds {
		require.NoError(t, repo.Record(ctx, service.AuthEvent{
			TabID:      "tab-recent",
			Kind:       kind,
			OccurredAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("newest first", func(t *testing.T) {
		events, err := repo.Recent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, events, 4)
		assert.Equal(t, service.AuthEventWipe, events[0].Kind)
		assert.Equal(t, service.AuthEventLogin, events[3].Kind)
	})

	t.Run("limit applied", func(t *testing.T) {
		events, err := repo.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, service.AuthEventWipe, events[0].Kind)
		assert.Equal(t, service.AuthEventLogout, events[1].Kind)
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		events, err := repo.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, events, 4)
	})
}
