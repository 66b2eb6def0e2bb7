package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	apperrors "github.com/agrilink/tab-session-api/internal/errors"
	"github.com/agrilink/tab-session-api/internal/mocks"
)

var errStorageDown = errors.New("storage unavailable")

// A failing backend must act as logged out: failing open is the one
// unacceptable failure mode for an auth boundary.
func TestAuthStore_StorageFailureActsAsLoggedOut(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	store := mocks.NewMockStorage(ctrl)
	store.EXPECT().GetTab(gomock.Any(), gomock.Any(), gomock.Any()).
		Return("", false, errStorageDown).AnyTimes()
	store.EXPECT().GetShared(gomock.Any(), gomock.Any()).
		Return("", false, errStorageDown).AnyTimes()

	auth := NewAuthStore(AuthStoreOptions{
		Scopes: NewScopeManager(ScopeManagerOptions{Store: store}),
	})

	assert.Empty(t, auth.Token(ctx, "tab-1"))
	assert.Nil(t, auth.User(ctx, "tab-1"))
	assert.Empty(t, auth.Role(ctx, "tab-1"))
	assert.False(t, auth.IsAuthenticated(ctx, "tab-1"))
}

func TestAuthStore_ClearAuthSurfacesStorageError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	store := mocks.NewMockStorage(ctrl)
	store.EXPECT().DeleteTab(gomock.Any(), "tab-1", domainauth.KeyAccessToken).
		Return(errStorageDown)

	auth := NewAuthStore(AuthStoreOptions{
		Scopes: NewScopeManager(ScopeManagerOptions{Store: store}),
	})

	err := auth.ClearAuth(ctx, "tab-1")
	assert.ErrorIs(t, err, errStorageDown)

	var appErr *apperrors.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeInternal, appErr.Code)
}

// Seeding the shared slot is best-effort: a failing shared write must not
// fail the tab's own login.
func TestTabScope_SharedSeedFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	store := mocks.NewMockStorage(ctrl)
	store.EXPECT().SetTab(gomock.Any(), "tab-1", "access_token", "tok-1").Return(nil)
	store.EXPECT().SetTab(gomock.Any(), "tab-1", domainauth.KeyHasSession, "true").Return(nil)
	store.EXPECT().DeleteTab(gomock.Any(), "tab-1", domainauth.KeyLoggedOut).Return(nil)
	store.EXPECT().SetSharedIfAbsent(gomock.Any(), "access_token", "tok-1").
		Return(false, errStorageDown)

	scope := NewScopeManager(ScopeManagerOptions{Store: store}).For("tab-1")

	assert.NoError(t, scope.Write(ctx, "access_token", "tok-1"))
}

// A failed logout-flag clear is tolerated, and the warn names the flag
// slot rather than the slot being written.
func TestTabScope_LogoutFlagClearFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	store := mocks.NewMockStorage(ctrl)
	store.EXPECT().SetTab(gomock.Any(), "tab-1", "access_token", "tok-1").Return(nil)
	store.EXPECT().SetTab(gomock.Any(), "tab-1", domainauth.KeyHasSession, "true").Return(nil)
	store.EXPECT().DeleteTab(gomock.Any(), "tab-1", domainauth.KeyLoggedOut).
		Return(errStorageDown)
	store.EXPECT().SetSharedIfAbsent(gomock.Any(), "access_token", "tok-1").Return(true, nil)

	var logBuf bytes.Buffer
	scope := NewScopeManager(ScopeManagerOptions{
		Store:  store,
		Logger: slog.New(slog.NewJSONHandler(&logBuf, nil)),
	}).For("tab-1")

	assert.NoError(t, scope.Write(ctx, "access_token", "tok-1"))
	assert.Contains(t, logBuf.String(), "logout flag clear failed")
	assert.Contains(t, logBuf.String(), `"key":"`+domainauth.KeyLoggedOut+`"`)
}
