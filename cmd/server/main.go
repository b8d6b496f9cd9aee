package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rtw/internal/domain/audit"
	"rtw/internal/domain/auth"
	"rtw/internal/domain/notifications"
	"rtw/internal/domain/reports"
	"rtw/internal/domain/retention"
	"rtw/internal/domain/rtw"
	"rtw/internal/domain/scans"
	"rtw/internal/platform/config"
	"rtw/internal/platform/db"
	"rtw/internal/platform/email"
	"rtw/internal/platform/jobs"
	"rtw/internal/platform/metrics"
	alertshandler "rtw/internal/transport/http/handlers/alerts"
	audithandler "rtw/internal/transport/http/handlers/audit"
	authhandler "rtw/internal/transport/http/handlers/auth"
	checkshandler "rtw/internal/transport/http/handlers/checks"
	retentionhandler "rtw/internal/transport/http/handlers/retention"
	"rtw/internal/transport/http/middleware"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	collector := metrics.New()

	checkStore := rtw.NewStore(pool)
	checkService := rtw.NewService(checkStore)
	scanStore := scans.NewStore(filepath.Join(cfg.StorageDir, "scans"))
	auditService := audit.New(pool)
	ledgerStore := retention.NewStore(pool)
	sweepService := retention.NewService(checkStore, ledgerStore, scanStore, auditService, collector)

	alertStore := notifications.NewStore(pool)
	alertService := notifications.New(alertStore, email.New(cfg), cfg.EmailFrom, cfg.AlertEmail)
	alertGenerator := notifications.NewGenerator(checkStore, alertService, collector)

	userStore := auth.NewStore(pool)
	reportService := reports.New()

	scheduler := jobs.New(pool, sweepService, alertGenerator, checkService, collector)
	if err := scheduler.Start(ctx, cfg.RetentionSchedule, cfg.AlertsSchedule); err != nil {
		slog.Error("job scheduler failed to start", "err", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(userStore, cfg.JWTSecret).RegisterRoutes(r)
		checkshandler.NewHandler(checkService, scanStore, auditService, reportService, sweepService).RegisterRoutes(r)
		retentionhandler.NewHandler(sweepService, ledgerStore).RegisterRoutes(r)
		alertshandler.NewHandler(alertService, alertGenerator).RegisterRoutes(r)
		audithandler.NewHandler(auditService).RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
