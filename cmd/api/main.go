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

	"github.com/codenest/erp-backend/internal/config"
	"github.com/codenest/erp-backend/internal/domain/access"
	appHTTP "github.com/codenest/erp-backend/internal/handler/http"
	"github.com/codenest/erp-backend/internal/handler/http/middleware"
	"github.com/codenest/erp-backend/internal/pkg/cron"
	"github.com/codenest/erp-backend/internal/pkg/database"
	"github.com/codenest/erp-backend/internal/pkg/jwt"
	"github.com/codenest/erp-backend/internal/pkg/sse"
	"github.com/codenest/erp-backend/internal/repository/postgresql"
	accessService "github.com/codenest/erp-backend/internal/service/access"
	serviceAuth "github.com/codenest/erp-backend/internal/service/auth"
	dashboardService "github.com/codenest/erp-backend/internal/service/dashboard"
	profileService "github.com/codenest/erp-backend/internal/service/profile"
	projectService "github.com/codenest/erp-backend/internal/service/project"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dsn := cfg.DatabaseURL()
	if cfg.Database.AutoMigrate {
		version, err := database.Migrate(dsn)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		slog.Info("database migrated", "version", version)
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	policy, err := access.ParseFallbackPolicy(cfg.Gate.FallbackPolicy)
	if err != nil {
		return err
	}

	userRepo := postgresql.NewUserRepository(db)
	profileRepo := postgresql.NewProfileRepository(db)
	sessionRepo := postgresql.NewSessionRepository(db)
	projectRepo := postgresql.NewProjectRepository(db)
	dashboardRepo := postgresql.NewDashboardRepository(db)

	hub := sse.NewHub()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.Cache.RevokedTokens)
	resolver := accessService.NewResolver(profileRepo, cfg.Gate.ResolveTimeout)

	authService := serviceAuth.NewAuthService(userRepo, profileRepo, sessionRepo, JWTService, hub)
	profileSvc := profileService.NewProfileService(profileRepo, hub)
	projectSvc := projectService.NewProjectService(projectRepo, profileRepo)
	dashboardSvc := dashboardService.NewDashboardService(dashboardRepo)

	router := appHTTP.NewRouter(
		cfg.App,
		JWTService,
		middleware.Decide(authService, resolver, policy),
		appHTTP.Handlers{
			Auth:      appHTTP.NewAuthHandler(JWTService, authService),
			Access:    appHTTP.NewAccessHandler(authService, resolver, policy),
			Profile:   appHTTP.NewProfileHandler(profileSvc),
			Project:   appHTTP.NewProjectHandler(projectSvc),
			Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		},
	)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewSessionJobs(sessionRepo, userRepo, cfg.Cron.SessionRetention).
			RegisterJobs(scheduler, cfg.Cron.PurgeInterval, cfg.Cron.AuditInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server running", "addr", server.Addr, "fallback_policy", policy)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
