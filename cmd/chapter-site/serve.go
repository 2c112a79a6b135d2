package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"chapterSite/internal/auth"
	"chapterSite/internal/cms/storyblok"
	"chapterSite/internal/config"
	"chapterSite/internal/email"
	"chapterSite/internal/http-server/middleware/mwthrottle"
	"chapterSite/internal/http-server/router"
	"chapterSite/internal/lib/logger/sl"
	"chapterSite/internal/lib/pagecache"
	"chapterSite/internal/lib/ratelimit"
	"chapterSite/internal/storage"
	"chapterSite/internal/storage/postgres"
	"chapterSite/internal/storage/sqlite"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var errNoJWTSecret = errors.New("auth.jwt_secret is required")

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. Pending migrations are applied first.

The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := setupLogger(cfg.Env)

	log.Info("starting chapter site", slog.String("env", cfg.Env))
	log.Debug("debug messages are enabled")

	if cfg.Auth.JWTSecret == "" {
		return errNoJWTSecret
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", sl.Err(err))
		}
		log.Info("storage closed")
	}()

	limiter := ratelimit.NewFixedWindow(cfg.Contact.Limit, cfg.Contact.Window)
	throttle := mwthrottle.NewStore(cfg.Auth.LoginEvery, cfg.Auth.LoginBurst)
	cache := pagecache.New(cfg.CMS.CacheTTL)

	deps := router.Deps{
		Storage:       store,
		Sessions:      auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.Audience),
		Limiter:       limiter,
		Cache:         cache,
		WebhookSecret: cfg.CMS.WebhookSecret,
		CookieName:    cfg.Auth.CookieName,
		CookieSecure:  cfg.Auth.CookieSecure,
		Timeout:       cfg.HTTPServer.Timeout,
	}

	if cfg.Auth.IdentityURL != "" {
		deps.Identity = auth.NewClient(cfg.Auth.IdentityURL, cfg.Auth.AnonKey, cfg.Auth.Timeout)
		deps.LoginThrottle = throttle
	} else {
		log.Warn("identity service is not configured, login is disabled")
	}

	if cfg.CMS.Token != "" {
		deps.CMS = storyblok.New(cfg.CMS.BaseURL, cfg.CMS.Token, cfg.CMS.Version, cfg.CMS.Timeout)
	} else {
		log.Warn("cms token is not configured, content routes are disabled")
	}

	if cfg.CMS.WebhookSecret == "" {
		log.Warn("cms webhook secret is not configured, signatures are not checked")
	}

	if notifier := email.New(log, cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.NotifyTo); notifier != nil {
		deps.Notifier = notifier
	} else {
		log.Info("contact notifications are disabled")
	}

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router.New(log, deps),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + time.Second,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", slog.String("address", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return limiter.Run(gctx, cfg.Contact.SweepInterval)
	})

	g.Go(func() error {
		idle := cfg.Auth.LoginEvery * time.Duration(cfg.Auth.LoginBurst)
		return throttle.Run(gctx, cfg.Contact.SweepInterval, idle)
	})

	g.Go(func() error {
		return cache.Run(gctx, cfg.Contact.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info("application stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		log.Info("application stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", sl.Err(err))
		return err
	}

	return nil
}

func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Storage.SQLitePath, cfg.Storage.QueryTimeout)
	case config.DriverPostgres:
		if err := postgres.MigrateUp(postgres.MigrationURL(&cfg.Database)); err != nil {
			return nil, err
		}
		return postgres.InitDB(&cfg.Database, cfg.Storage.QueryTimeout)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
