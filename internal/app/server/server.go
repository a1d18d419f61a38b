package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"leavedesk/internal/domain/audit"
	"leavedesk/internal/domain/auth"
	"leavedesk/internal/domain/directory"
	"leavedesk/internal/domain/leave"
	"leavedesk/internal/domain/memo"
	"leavedesk/internal/domain/notifications"
	"leavedesk/internal/domain/reports"
	"leavedesk/internal/domain/workflow"
	"leavedesk/internal/platform/config"
	"leavedesk/internal/platform/db"
	"leavedesk/internal/platform/jobs"
	"leavedesk/internal/platform/metrics"
	"leavedesk/internal/transport/http/api"
	authhandler "leavedesk/internal/transport/http/handlers/auth"
	leavehandler "leavedesk/internal/transport/http/handlers/leave"
	memohandler "leavedesk/internal/transport/http/handlers/memo"
	notificationshandler "leavedesk/internal/transport/http/handlers/notifications"
	reportshandler "leavedesk/internal/transport/http/handlers/reports"
	workflowhandler "leavedesk/internal/transport/http/handlers/workflow"
	"leavedesk/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if err := db.Seed(ctx, pool, cfg); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	collector := metrics.New()

	directoryStore := directory.NewStore(pool)
	notifySvc := notifications.NewService(notifications.NewStore(pool))
	auditSvc := audit.NewService(audit.NewStore(pool))
	workflowSvc := workflow.NewService(workflow.NewStore(pool))
	leaveSvc := leave.NewService(leave.NewStore(pool), workflowSvc, directoryStore, notifySvc)
	memoSvc := memo.NewService(memo.NewStore(pool), workflowSvc, directoryStore, notifySvc)
	reportsSvc := reports.NewService(reports.NewStore(pool))
	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)

	jobsSvc := jobs.New(pool, cfg)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
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
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, auditSvc, jobsSvc).RegisterRoutes(r)
		memohandler.NewHandler(memoSvc, auditSvc).RegisterRoutes(r)
		workflowhandler.NewHandler(workflowSvc, auditSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
	})

	log.Printf("leavedesk server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
