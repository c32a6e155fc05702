package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardiwn/promptvault/internal"
	"github.com/ardiwn/promptvault/internal/handler"
	"github.com/ardiwn/promptvault/internal/metrics"
	"github.com/ardiwn/promptvault/internal/middleware"
	"github.com/ardiwn/promptvault/internal/repository"
	"github.com/ardiwn/promptvault/internal/service"
	"github.com/go-playground/validator/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// sessionCleanupInterval controls how often expired sessions are purged.
const sessionCleanupInterval = time.Hour

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database connection
	db, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	if err := internal.RunMigrations(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database ready")

	// Initialize repository
	repo := repository.New(db, cfg.DBQueryTimeout)

	// Initialize services
	userService := service.NewUserService(repo, logger, cfg.AdminEmails)
	codeService := service.NewCodeService(repo, logger)
	requestService := service.NewRequestService(repo, logger)
	contentService := service.NewContentService(repo, logger)
	permissionService := service.NewPermissionService(repo, logger)

	// Shared request validator
	validate := validator.New()

	// Initialize middleware
	isSecure := cfg.Env != "development"
	authMw := middleware.NewAuthMiddleware(userService, logger, isSecure)
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	authLimiter := middleware.NewAuthRateLimiter(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, validate, logger, isSecure)
	codeHandler := handler.NewCodeHandler(codeService, validate, logger)
	requestHandler := handler.NewRequestHandler(requestService, validate, logger)
	contentHandler := handler.NewContentHandler(contentService, validate, logger)
	permissionHandler := handler.NewPermissionHandler(permissionService, validate, logger)
	adminUserHandler := handler.NewAdminUserHandler(userService, validate, logger)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus metrics (basic auth via METRICS_USERNAME/METRICS_PASSWORD)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	// Middleware stacks
	requireUser := middleware.Stack(authMw.WithUser, authMw.RequireUser)
	requireAdmin := middleware.Stack(authMw.WithUser, authMw.RequireAdmin)

	// Public auth routes
	mux.Handle("POST /api/register", authLimiter.LimitRegister(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/login", authLimiter.LimitLogin(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/logout", http.HandlerFunc(authHandler.Logout))

	// Authenticated user routes
	mux.Handle("GET /api/me", requireUser(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /api/permissions", requireUser(http.HandlerFunc(permissionHandler.ListMine)))
	mux.Handle("POST /api/redeem-access-code",
		authLimiter.LimitRedeem(requireUser(http.HandlerFunc(codeHandler.Redeem))))
	mux.Handle("POST /api/prompt-requests", requireUser(http.HandlerFunc(requestHandler.Submit)))
	mux.Handle("GET /api/prompt-requests", requireUser(http.HandlerFunc(requestHandler.ListMine)))
	mux.Handle("GET /api/prompts", requireUser(http.HandlerFunc(contentHandler.ListPrompts)))
	mux.Handle("GET /api/product-ideas", requireUser(http.HandlerFunc(contentHandler.ListProductIdeas)))
	mux.Handle("GET /api/digital-products", requireUser(http.HandlerFunc(contentHandler.ListDigitalProducts)))

	// Admin routes
	mux.Handle("POST /api/admin/content/batch", requireAdmin(http.HandlerFunc(contentHandler.BatchInsert)))
	mux.Handle("POST /api/admin/codes", requireAdmin(http.HandlerFunc(codeHandler.Create)))
	mux.Handle("GET /api/admin/codes", requireAdmin(http.HandlerFunc(codeHandler.List)))
	mux.Handle("PATCH /api/admin/codes/{id}", requireAdmin(http.HandlerFunc(codeHandler.SetActive)))
	mux.Handle("GET /api/admin/users", requireAdmin(http.HandlerFunc(adminUserHandler.ListUsers)))
	mux.Handle("PATCH /api/admin/users/{id}/role", requireAdmin(http.HandlerFunc(adminUserHandler.UpdateRole)))
	mux.Handle("GET /api/admin/permissions", requireAdmin(http.HandlerFunc(permissionHandler.ListAll)))
	mux.Handle("POST /api/admin/permissions", requireAdmin(http.HandlerFunc(permissionHandler.Grant)))
	mux.Handle("DELETE /api/admin/permissions/{id}", requireAdmin(http.HandlerFunc(permissionHandler.Revoke)))
	mux.Handle("GET /api/admin/requests", requireAdmin(http.HandlerFunc(requestHandler.ListAll)))
	mux.Handle("PATCH /api/admin/requests/{id}", requireAdmin(http.HandlerFunc(requestHandler.Review)))

	// Outer middleware: logging -> security headers -> metrics -> CORS -> mux
	corsMw := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	root := middleware.Stack(
		loggingMw.Handler,
		securityMw.Handler,
		metrics.Middleware,
		corsMw.Handler,
	)(mux)

	// ==========================================================================
	// Background session cleanup
	// ==========================================================================

	cleanupCtx, cancelCleanup := context.WithCancel(ctx)
	defer cancelCleanup()
	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				if err := userService.DeleteExpiredSessions(cleanupCtx); err != nil {
					logger.Error("session cleanup failed", "error", err)
				}
			}
		}
	}()

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
