package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/audit"
	"hrpay/internal/domain/auth"
	"hrpay/internal/domain/directory"
	"hrpay/internal/domain/payroll"
	"hrpay/internal/platform/config"
	"hrpay/internal/platform/db"
	"hrpay/internal/platform/metrics"
	"hrpay/internal/transport/http/api"
	audithandler "hrpay/internal/transport/http/handlers/audit"
	authhandler "hrpay/internal/transport/http/handlers/auth"
	directoryhandler "hrpay/internal/transport/http/handlers/directory"
	payrollhandler "hrpay/internal/transport/http/handlers/payroll"
	payslipshandler "hrpay/internal/transport/http/handlers/payslips"
	"hrpay/internal/transport/http/middleware"
)

type App struct {
	Router chi.Router

	cfg  config.Config
	pool *pgxpool.Pool
}

// New wires the whole application: database, domain services, and the HTTP
// router. Migrations and seed data run here so a fresh database is usable
// immediately.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed database: %w", err)
		}
	}

	collector := metrics.New()

	authStore := auth.NewStore(pool)
	employees := directory.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	payrollSvc := payroll.NewService(employees, payrollStore, payrollStore)
	auditSvc := audit.New(pool)
	idem := middleware.NewIdempotencyStore(pool)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(collector))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(middleware.Auth(cfg.JWTSecret))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		pingCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unreachable", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(r.Context()))
	})

	if cfg.MetricsEnabled {
		r.With(middleware.RequirePermission(auth.PermAuditRead, authStore)).
			Get("/metricsz", func(w http.ResponseWriter, r *http.Request) {
				api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
			})
	}

	r.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret).RegisterRoutes(r)
		directoryhandler.NewHandler(employees, auditSvc, authStore).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, auditSvc, authStore, idem, collector).RegisterRoutes(r)
		payslipshandler.NewHandler(payrollSvc, employees, authStore).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
	})

	return &App{Router: r, cfg: cfg, pool: pool}, nil
}

func (a *App) Run() error {
	slog.Info("server listening", "addr", a.cfg.Addr, "env", a.cfg.Environment)
	return http.ListenAndServe(a.cfg.Addr, a.Router)
}

func (a *App) Close() {
	a.pool.Close()
}
