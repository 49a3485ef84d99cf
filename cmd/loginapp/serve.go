// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/KobbyFlex00/my-login-app/internal/auth"
	authpg "github.com/KobbyFlex00/my-login-app/internal/auth/postgres"
	"github.com/KobbyFlex00/my-login-app/internal/config"
	"github.com/KobbyFlex00/my-login-app/internal/logging"
	"github.com/KobbyFlex00/my-login-app/internal/observability"
	"github.com/KobbyFlex00/my-login-app/internal/session"
	"github.com/KobbyFlex00/my-login-app/internal/store"
	"github.com/KobbyFlex00/my-login-app/internal/web"
)

// shutdownTimeout bounds graceful shutdown of the HTTP servers.
const shutdownTimeout = 10 * time.Second

// ServeDeps holds injectable dependencies for the serve command. A nil
// field selects the default implementation.
type ServeDeps struct {
	PoolConnector  func(ctx context.Context, url string) (*pgxpool.Pool, error)
	MigratorUpper  func(url string) error
	RandomSecreter func(n int) ([]byte, error)
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web application server",
		Long: `Start the HTTP server for the credential-management web
application, running pending database migrations first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, nil)
		},
	}

	// Flag names mirror the config file keys so the flag layer can
	// override the file layer key for key.
	cmd.Flags().String("listen_addr", config.DefaultListenAddr, "HTTP listen address")
	cmd.Flags().String("metrics_addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log_format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL (default: $DATABASE_URL)")
	cmd.Flags().String("session.secret", "", "session signing secret, base64 raw-URL encoded (default: random per start)")
	cmd.Flags().Duration("session.ttl", config.DefaultSessionTTL, "session lifetime")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies. If
// deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.PoolConnector == nil {
		deps.PoolConnector = store.Connect
	}
	if deps.MigratorUpper == nil {
		deps.MigratorUpper = func(url string) error {
			m, err := store.NewMigrator(url)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()
			return m.Up()
		}
	}
	if deps.RandomSecreter == nil {
		deps.RandomSecreter = session.NewRandomSecret
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database.url (or DATABASE_URL) is required")
	}

	logging.SetDefault("loginapp", version, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting loginapp",
		"listen_addr", cfg.ListenAddr,
		"metrics_addr", cfg.MetricsAddr,
		"log_format", cfg.LogFormat,
	)

	if err := deps.MigratorUpper(cfg.Database.URL); err != nil {
		return oops.Code("MIGRATION_FAILED").
			With("operation", "run migrations").
			Wrap(err)
	}
	slog.Info("database schema up to date")

	pool, err := deps.PoolConnector(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").
			With("operation", "connect to database").
			Wrap(err)
	}
	defer pool.Close()
	slog.Info("connected to database")

	secret := cfg.SessionSecret()
	if len(secret) == 0 {
		secret, err = deps.RandomSecreter(32)
		if err != nil {
			return oops.Code("SESSION_SECRET_FAILED").
				With("operation", "generate session secret").
				Wrap(err)
		}
		slog.Warn("no session secret configured, generated a random one; sessions will not survive a restart")
	}

	sessions, err := session.NewManager(session.Config{
		Secret: secret,
		TTL:    cfg.Session.TTL,
	})
	if err != nil {
		return err
	}

	svc, err := auth.NewServiceWithLogger(
		authpg.NewUserRepository(pool),
		auth.NewArgon2idHasher(),
		slog.Default(),
	)
	if err != nil {
		return err
	}

	// Metrics and health server, started first so readiness reflects
	// the web server coming up behind it.
	var obsErrCh <-chan error
	var obs *observability.Server
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obs = observability.NewServer(cfg.MetricsAddr, func() bool {
			return pool.Ping(ctx) == nil
		})
		metrics = obs.Metrics()
		obsErrCh, err = obs.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").
				With("addr", cfg.MetricsAddr).
				Wrap(err)
		}
		slog.Info("observability server started", "addr", obs.Addr())
	}

	app, err := web.NewApp(svc, sessions, metrics, slog.Default())
	if err != nil {
		return err
	}
	webSrv := web.NewServer(cfg.ListenAddr, app)
	webErrCh, err := webSrv.Start()
	if err != nil {
		return oops.Code("SERVER_START_FAILED").
			With("addr", cfg.ListenAddr).
			Wrap(err)
	}
	slog.Info("web server started", "addr", webSrv.Addr())

	// Block until a shutdown signal or a server failure.
	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-webErrCh:
		if err != nil {
			runErr = oops.Code("SERVER_FAILED").Wrap(err)
		}
	case err := <-obsErrCh:
		if err != nil {
			runErr = oops.Code("OBSERVABILITY_FAILED").Wrap(err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := webSrv.Stop(shutdownCtx); err != nil {
		slog.Error("web server shutdown failed", "error", err)
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			slog.Error("observability server shutdown failed", "error", err)
		}
	}

	slog.Info("loginapp stopped")
	return runErr
}
