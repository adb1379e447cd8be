// Package main is the entrypoint for the tenant gate server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guzellestir/tenantgate/internal/api"
	mw "github.com/guzellestir/tenantgate/internal/api/middleware"
	"github.com/guzellestir/tenantgate/internal/api/response"
	"github.com/guzellestir/tenantgate/internal/cache"
	"github.com/guzellestir/tenantgate/internal/config"
	"github.com/guzellestir/tenantgate/internal/hostname"
	"github.com/guzellestir/tenantgate/internal/resolver"
	"github.com/guzellestir/tenantgate/internal/routing"
	"github.com/guzellestir/tenantgate/internal/session"
	"github.com/guzellestir/tenantgate/internal/store"
	"github.com/guzellestir/tenantgate/internal/tenantsvc"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "apex", cfg.Gate.ApexDomain, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store and session manager
	pgStore := store.NewPostgresStore(pool)
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL)

	// 6. Build the resolution chain: static allow-list, then the
	// authoritative store, then (if configured) the remote directory.
	rules := hostname.NewRules(cfg.Gate.ApexDomain, cfg.Gate.ReservedWords)

	var sources []resolver.Source
	if len(cfg.Gate.StaticSlugs) > 0 {
		sources = append(sources, resolver.NewStaticSlugSource(cfg.Gate.StaticSlugs))
	}
	sources = append(sources, resolver.NewStoreSource(pgStore))
	if cfg.Directory.URL != "" {
		directory := tenantsvc.NewHTTPClient(cfg.Directory.URL, cfg.Directory.Timeout)
		sources = append(sources, resolver.NewRemoteSource(directory))
		slog.Info("remote tenant directory enabled", "url", cfg.Directory.URL)
	}
	cached := resolver.NewCached(resolver.NewChain(sources...), redisCache, cfg.Gate.LookupTTL)

	// 7. Build router with dependencies
	pages := response.NewPages(cfg.Gate.ApexDomain)
	dispatcher := routing.NewDispatcher(cfg.Gate.ApexDomain, sessions)
	gateway := api.NewGateway(rules, cached, dispatcher, pages)

	directory := api.NewDirectory(pgStore, rules, redisCache, cfg.Gate.LookupTTL)
	admin := api.NewAdmin(pgStore, sessions, rules, cached, redisCache)

	deps := api.Dependencies{
		Gateway:      gateway,
		SessionGuard: mw.NewSessionGuard(sessions),
		LookupLimit:  mw.NewLookupRateLimit(redisCache, cfg.Gate.LookupRatePerMin),

		HealthHandler: healthHandler(pgStore, redisCache),

		ValidateSubdomain: directory.ValidateSubdomain,
		TenantFeatures:    directory.TenantFeatures,

		AdminLogin:            admin.Login,
		AdminLogout:           admin.Logout,
		ListRestaurants:       admin.ListRestaurants,
		CreateRestaurant:      admin.CreateRestaurant,
		SetRestaurantActive:   admin.SetRestaurantActive,
		SetRestaurantFeatures: admin.SetRestaurantFeatures,
		// Application area handlers are wired when the web apps attach.
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
