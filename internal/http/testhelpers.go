package httpx

import (
	"io"
	"log/slog"

	"github.com/agrilink/tab-session-api/internal/adapters/eventbus"
	"github.com/agrilink/tab-session-api/internal/adapters/memstorage"
	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	"github.com/agrilink/tab-session-api/internal/service"
	"github.com/agrilink/tab-session-api/internal/tabid"
)

// testEnv bundles a fully wired in-memory stack for handler tests.
type testEnv struct {
	Store      *memstorage.Store
	Auth       *service.AuthStore
	Roles      *service.RoleResolver
	Navigation *service.NavigationGate
	Tabs       *tabid.Registry
	Logger     *slog.Logger
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memstorage.New()
	scopes := service.NewScopeManager(service.ScopeManagerOptions{
		Store:          store,
		MigrationGroup: domainauth.AllAuthKeys(),
		Logger:         logger,
	})
	auth := service.NewAuthStore(service.AuthStoreOptions{
		Scopes: scopes,
		Bus:    eventbus.New(logger),
		Logger: logger,
	})

	return &testEnv{
		Store: store,
		Auth:  auth,
		Roles: service.NewRoleResolver(auth),
		Navigation: service.NewNavigationGate(service.NavigationGateOptions{
			Store:  store,
			Logger: logger,
		}),
		Tabs:   tabid.NewRegistry(store, logger),
		Logger: logger,
	}
}

func (e *testEnv) router() *RouterServices {
	return &RouterServices{
		Auth:       e.Auth,
		Roles:      e.Roles,
		Navigation: e.Navigation,
		Tabs:       e.Tabs,
		Logger:     e.Logger,
	}
}
