package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/agrilink/tab-session-api/config"
	"github.com/agrilink/tab-session-api/internal/adapters/eventbus"
	"github.com/agrilink/tab-session-api/internal/adapters/memstorage"
	"github.com/agrilink/tab-session-api/internal/adapters/redisstorage"
	"github.com/agrilink/tab-session-api/internal/data"
	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	"github.com/agrilink/tab-session-api/internal/observability/statsd"
	"github.com/agrilink/tab-session-api/internal/ports"
	"github.com/agrilink/tab-session-api/internal/service"
	"github.com/agrilink/tab-session-api/internal/tabid"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Storage    ports.Storage
	Bus        *eventbus.Bus
	Scopes     *service.ScopeManager
	Auth       *service.AuthStore
	Roles      *service.RoleResolver
	Navigation *service.NavigationGate
	Tabs       *tabid.Registry
	Audit      *data.AuthEventRepo // nil when the audit DB is disabled
	Metrics    *statsd.Client
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	AuditDB     *sql.DB                // nil when the audit DB is disabled
	RedisClient redis.UniversalClient  // nil for the memory backend
	Logger      *slog.Logger
}

// InitServices wires the full service graph from its dependencies.
func InitServices(deps ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := buildStorage(cfg, deps.RedisClient)
	if err != nil {
		return nil, err
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init statsd client: %w", err)
	}

	var audit *data.AuthEventRepo
	if deps.AuditDB != nil {
		audit = data.NewAuthEventRepo(deps.AuditDB)
	}

	scopes := service.NewScopeManager(service.ScopeManagerOptions{
		Store:          store,
		MigrationGroup: domainauth.AllAuthKeys(),
		OnMigrate:      migrationObserver(metrics, audit, logger),
		Logger:         logger,
	})

	bus := eventbus.New(logger)

	auth := service.NewAuthStore(service.AuthStoreOptions{
		Scopes:  scopes,
		Bus:     bus,
		Metrics: metrics,
		Audit:   auditOrNil(audit),
		Logger:  logger,
	})

	return &ServiceContainer{
		Storage:    store,
		Bus:        bus,
		Scopes:     scopes,
		Auth:       auth,
		Roles:      service.NewRoleResolver(auth),
		Navigation: service.NewNavigationGate(service.NavigationGateOptions{
			Store:     store,
			Window:    cfg.Session.NavigationWindow,
			LoginPath: cfg.Session.LoginPath,
			Logger:    logger,
		}),
		Tabs:    tabid.NewRegistry(store, logger),
		Audit:   audit,
		Metrics: metrics,
	}, nil
}

// buildStorage selects the storage adapter for the configured backend.
//
//nolint:ireturn // callers program against ports.Storage.
func buildStorage(cfg *config.AppConfig, client redis.UniversalClient) (ports.Storage, error) {
	switch cfg.Session.StorageBackend {
	case config.StorageBackendRedis:
		if client == nil {
			return nil, fmt.Errorf("storage backend %q requires a redis client", cfg.Session.StorageBackend)
		}
		return redisstorage.New(client, redisstorage.Options{
			Prefix: cfg.Session.KeyPrefix,
			TabTTL: cfg.Session.TabTTL,
		}), nil
	case config.StorageBackendMemory:
		return memstorage.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Session.StorageBackend)
	}
}

// migrationObserver reports session migrations to metrics and the audit trail.
func migrationObserver(
	metrics *statsd.Client,
	audit *data.AuthEventRepo,
	logger *slog.Logger,
) func(ctx context.Context, tabID string, keys []string) {
	return func(ctx context.Context, tabID string, keys []string) {
		metrics.Count("session.migration", 1, nil)
		if audit == nil {
			return
		}
		evt := service.AuthEvent{TabID: tabID, Kind: service.AuthEventMigration}
		if err := audit.Record(ctx, evt); err != nil {
			logger.WarnContext(ctx, "audit migration record failed", "tab_id", tabID, "error", err)
		}
	}
}

// auditOrNil avoids handing a typed-nil AuditRecorder to the auth store.
//
//nolint:ireturn // adapting a concrete repo to the service interface.
func auditOrNil(repo *data.AuthEventRepo) service.AuditRecorder {
	if repo == nil {
		return nil
	}
	return repo
}
