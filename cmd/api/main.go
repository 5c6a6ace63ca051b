package main

import (
	"context"
	"go-workspace-portal/config"
	v1 "go-workspace-portal/internal/delivery/http/v1"
	"go-workspace-portal/internal/repository/postgres"
	"go-workspace-portal/internal/repository/supabase"
	"go-workspace-portal/internal/routing"
	"go-workspace-portal/internal/usecase"
	"go-workspace-portal/pkg/auth"
	"go-workspace-portal/pkg/database"
	"go-workspace-portal/pkg/email"
	"go-workspace-portal/pkg/logger"
	"go-workspace-portal/pkg/redis"
	"go-workspace-portal/pkg/validation"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting workspace portal backend", "port", cfg.Port)

	// 3. Setup Database (service-role connection)
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (rate limiting; in-memory fallback when absent)
	if err := redis.Initialize(redis.Config{
		URL:      cfg.UpstashRedisURL,
		Password: cfg.UpstashRedisPassword,
	}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to in-memory", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	workspaceRepo := postgres.NewWorkspaceRepository(dbPool)
	onboardingRepo := postgres.NewOnboardingRepository(dbPool)
	adminRepo := postgres.NewAdminRepository(dbPool)

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - review notifications will be skipped")
	}

	// 7. Setup UseCases
	validate := validator.New()
	validation.RegisterValidators(validate)

	authUC := usecase.NewAuthUsecase(userRepo)
	workspaceUC := usecase.NewWorkspaceUsecase(workspaceRepo, userRepo, validate)
	onboardingUC := usecase.NewOnboardingUsecase(onboardingRepo, workspaceRepo, emailService, validate)
	adminUC := usecase.NewAdminUsecase(adminRepo, userRepo, onboardingRepo, validate)

	// 8. Session resolver and profile loader
	jwksURL := cfg.SupabaseUrl + "/auth/v1/.well-known/jwks.json"
	resolver := auth.NewResolver(auth.NewProvider(jwksURL), cfg.SupabaseJWTSecret, cfg.SupabaseProjectRef)

	restricted := supabase.NewRestrictedProfileReader(cfg.SupabaseUrl, cfg.SupabaseAnonKey)
	elevated := postgres.NewElevatedProfileReader(dbPool)
	profileLoader := usecase.NewProfileLoader(restricted, elevated)

	// 9. Routing policy engine
	engine := routing.NewEngine(routing.Config{
		PublicRoutes:   cfg.PublicRoutes,
		BypassPrefixes: cfg.GateBypassPrefixes,
		AdminPrefix:    cfg.AdminPathPrefix,
		LoginPath:      cfg.LoginPath,
		WorkspacePath:  cfg.WorkspacePath,
		DashboardPath:  cfg.DashboardPath,
		AdminPath:      cfg.AdminPath,
	})

	// 10. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		WorkspaceUC:   workspaceUC,
		OnboardingUC:  onboardingUC,
		AdminUC:       adminUC,
		ProfileLoader: profileLoader,
		Resolver:      resolver,
		Engine:        engine,
		Config:        cfg,
	})

	// 11. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
