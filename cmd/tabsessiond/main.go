package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/agrilink/tab-session-api/config"
	"github.com/agrilink/tab-session-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting tab session service",
		"storage_backend", cfg.Session.StorageBackend,
		"audit_enabled", cfg.AuditDB.Enabled,
		"addr", cfg.HTTP.Addr)

	auditDB, redisClient, err := initInfrastructure(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if auditDB != nil {
		defer func() {
			if cerr := auditDB.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close audit database failed", "error", cerr)
			}
		}()
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	services, err := bootstrap.InitServices(bootstrap.ServiceDeps{
		Config:      &cfg,
		AuditDB:     auditDB,
		RedisClient: redisClient,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Metrics.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close metrics client failed", "error", cerr)
		}
	}()

	server := bootstrap.NewHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		return bootstrap.Serve(server, logger)
	})
	g.Go(func() error {
		<-gctx.Done()
		return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Timeout: cfg.HTTP.ShutdownTimeout,
			Logger:  logger,
		})
	})

	return g.Wait()
}

// initInfrastructure connects the external dependencies the configuration asks for.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func initInfrastructure(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (*sql.DB, redis.UniversalClient, error) {
	var auditDB *sql.DB
	if cfg.AuditDB.Enabled {
		db, err := bootstrap.ConnectAuditDB(cfg.AuditDB, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect audit db: %w", err)
		}
		auditDB = db

		if cfg.AuditDB.RunMigrationsOnStart {
			if err := bootstrap.RunMigrations(ctx, auditDB, logger); err != nil {
				return nil, nil, err
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	var redisClient redis.UniversalClient
	if cfg.Session.StorageBackend == config.StorageBackendRedis {
		client, err := bootstrap.ConnectRedis(cfg.Redis, logger)
		if err != nil {
			if auditDB != nil {
				if cerr := auditDB.Close(); cerr != nil {
					logger.ErrorContext(ctx, "close audit database after redis connect failure", "error", cerr)
				}
			}
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		redisClient = client
	}

	return auditDB, redisClient, nil
}
