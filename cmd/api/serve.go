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

	"github.com/geocoder89/koinonia/internal/auth"
	"github.com/geocoder89/koinonia/internal/config"
	"github.com/geocoder89/koinonia/internal/db"
	httpx "github.com/geocoder89/koinonia/internal/http"
	"github.com/geocoder89/koinonia/internal/observability"
	"github.com/geocoder89/koinonia/internal/redisclient"
	"github.com/geocoder89/koinonia/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")

	return cmd
}

func serve(parent context.Context, migrate bool) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: cfg.OTelServiceName,
		Endpoint:    cfg.OTelEndpoint,
		Env:         cfg.Env,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		tctx, cancel := config.WithTimeout(5 * time.Second)
		defer cancel()
		_ = shutdownTracer(tctx)
	}()

	if migrate {
		if err := db.MigrateUp(cfg.DBURL); err != nil {
			return err
		}
	}

	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	users := postgres.NewUsersRepo(pool, prom)

	seedCtx, cancelSeed := config.WithTimeoutFrom(ctx, 10*time.Second)
	created, err := db.EnsureAdminUser(seedCtx, users, cfg)
	cancelSeed()
	if err != nil {
		log.Error("admin seed failed", "err", err)
	} else if created {
		log.Info("admin user created", "email", cfg.AdminEmail)
	}

	var revocations auth.RevocationStore = auth.NopRevocations{}
	if cfg.RedisAddr != "" {
		rc, err := redisclient.New(redisclient.Config{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return err
		}
		defer rc.Close()

		pctx, cancel := config.WithTimeoutFrom(ctx, 2*time.Second)
		err = rc.Ping(pctx)
		cancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		revocations = auth.NewRedisRevocations(rc.Raw())
	} else {
		log.Warn("REDIS_ADDR not set; logout will not revoke tokens")
	}

	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Users:       users,
		Events:      postgres.NewEventsRepo(pool, prom),
		Enrollments: postgres.NewEnrollmentsRepo(pool, prom),
		Ping:        pool.Ping,
		JWT:         auth.NewManager(cfg.SigningSecret(), cfg.JWTExpiresIn),
		Revocations: revocations,
		Prom:        prom,
		Gatherer:    reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("server shutting down")

	sctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		log.Error("graceful shutdown failed", "err", err)
		return err
	}

	log.Info("shutdown complete")
	return nil
}
