package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/agrilink/tab-session-api/config"
	"github.com/agrilink/tab-session-api/internal/adapters/redisstorage"
	"github.com/agrilink/tab-session-api/internal/bootstrap"
	"github.com/agrilink/tab-session-api/internal/data"
	domainauth "github.com/agrilink/tab-session-api/internal/domain/auth"
	"github.com/agrilink/tab-session-api/internal/ports"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run audit database migrations",
			run:         runMigrate,
		},
		"wipe-shared": {
			name:        "wipe-shared",
			description: "Delete the shared auth slots so new tabs inherit nothing",
			run:         runWipeShared,
		},
		"inspect-tab": {
			name:        "inspect-tab",
			description: "Dump a tab's auth and control slots plus the shared slots",
			run:         runInspectTab,
		},
		"purge-tab": {
			name:        "purge-tab",
			description: "Delete every slot in a tab's namespace",
			run:         runPurgeTab,
		},
		"recent-events": {
			name:        "recent-events",
			description: "List recent auth events from the audit trail",
			run:         runRecentEvents,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: tabsession-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := cmds[name]
		if err := writef(os.Stdout, "  %-16s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// connectStorage opens the Redis-backed session store. The memory backend
// keeps state inside the server process, so there is nothing to administer.
//
//nolint:ireturn // callers program against ports.Storage.
func connectStorage(cmdCtx *commandContext) (ports.Storage, func(), error) {
	if cmdCtx.Config.Session.StorageBackend != config.StorageBackendRedis {
		return nil, nil, errors.New(
			"admin commands require SESSION_STORAGE_BACKEND=redis; the memory backend has no external state")
	}

	client, err := bootstrap.ConnectRedis(cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	cleanup := func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}

	store := redisstorage.New(client, redisstorage.Options{
		Prefix: cmdCtx.Config.Session.KeyPrefix,
		TabTTL: cmdCtx.Config.Session.TabTTL,
	})
	return store, cleanup, nil
}

func connectAuditDB(cmdCtx *commandContext) (*sql.DB, func(), error) {
	if !cmdCtx.Config.AuditDB.Enabled {
		return nil, nil, errors.New("audit trail commands require AUDIT_DB_ENABLED=true")
	}

	db, err := bootstrap.ConnectAuditDB(cmdCtx.Config.AuditDB, cmdCtx.Logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}
	return db, cleanup, nil
}

func runMigrate(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", defaultMigrationTimeout, "migration timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, cleanup, err := connectAuditDB(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, *timeout)
	defer cancel()

	return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
}

func runWipeShared(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("wipe-shared", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("refusing to wipe shared auth slots without -yes")
	}

	store, cleanup, err := connectStorage(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	for _, key := range domainauth.AllAuthKeys() {
		if delErr := store.DeleteShared(ctx, key); delErr != nil {
			return fmt.Errorf("delete shared %q: %w", key, delErr)
		}
	}

	cmdCtx.Logger.InfoContext(ctx, "shared auth slots wiped", "keys", len(domainauth.AllAuthKeys()))
	return nil
}

// inspectKeys covers the auth alias group plus the tab-local control slots.
func inspectKeys() []string {
	return append(domainauth.AllAuthKeys(),
		domainauth.KeyTabID,
		domainauth.KeyLoggedOut,
		domainauth.KeyHasSession,
		domainauth.KeyNavigationAllowed,
		domainauth.KeyNavigationTime,
	)
}

func runInspectTab(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("inspect-tab", flag.ContinueOnError)
	tabID := fs.String("tab", "", "tab id to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tabID == "" {
		return errors.New("-tab is required")
	}

	store, cleanup, err := connectStorage(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err = writef(w, "SCOPE\tKEY\tVALUE\n"); err != nil {
		return err
	}

	for _, key := range inspectKeys() {
		value, ok, getErr := store.GetTab(ctx, *tabID, key)
		if getErr != nil {
			return fmt.Errorf("get tab slot %q: %w", key, getErr)
		}
		if ok {
			if err = writef(w, "tab\t%s\t%s\n", key, value); err != nil {
				return err
			}
		}
	}
	for _, key := range domainauth.AllAuthKeys() {
		value, ok, getErr := store.GetShared(ctx, key)
		if getErr != nil {
			return fmt.Errorf("get shared slot %q: %w", key, getErr)
		}
		if ok {
			if err = writef(w, "shared\t%s\t%s\n", key, value); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

func runPurgeTab(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("purge-tab", flag.ContinueOnError)
	tabID := fs.String("tab", "", "tab id to purge")
	yes := fs.Bool("yes", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *tabID == "" {
		return errors.New("-tab is required")
	}
	if !*yes {
		return errors.New("refusing to purge a tab namespace without -yes")
	}

	store, cleanup, err := connectStorage(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	if err = store.ClearTab(ctx, *tabID); err != nil {
		return fmt.Errorf("clear tab %q: %w", *tabID, err)
	}

	cmdCtx.Logger.InfoContext(ctx, "tab namespace purged", "tab_id", *tabID)
	return nil
}

func runRecentEvents(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("recent-events", flag.ContinueOnError)
	limit := fs.Int("limit", 50, "maximum events to list")
	tabID := fs.String("tab", "", "filter to one tab id")
	rawJSON := fs.Bool("json", false, "emit JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, cleanup, err := connectAuditDB(cmdCtx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	repo := data.NewAuthEventRepo(db)

	var events []data.AuthEventRow
	if *tabID != "" {
		events, err = repo.ForTab(ctx, *tabID, *limit)
	} else {
		events, err = repo.Recent(ctx, *limit)
	}
	if err != nil {
		return err
	}

	if *rawJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err = writef(w, "OCCURRED\tTAB\tKIND\tUSER\tROLE\n"); err != nil {
		return err
	}
	for _, evt := range events {
		if err = writef(w, "%s\t%s\t%s\t%s\t%s\n",
			evt.OccurredAt.Format(time.RFC3339), evt.TabID, evt.Kind, evt.UserID, evt.Role); err != nil {
			return err
		}
	}
	return w.Flush()
}
