package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/homelink/marketplace-backend/internal/adapters/primary/http"
	mw "github.com/homelink/marketplace-backend/internal/adapters/primary/http/middleware"
	"github.com/homelink/marketplace-backend/internal/adapters/primary/websocket"
	"github.com/homelink/marketplace-backend/internal/adapters/secondary/email"
	"github.com/homelink/marketplace-backend/internal/adapters/secondary/postgres"
	"github.com/homelink/marketplace-backend/internal/auth"
	"github.com/homelink/marketplace-backend/internal/config"
	"github.com/homelink/marketplace-backend/internal/core/services"
	"github.com/homelink/marketplace-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 4. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	hub := websocket.NewHub(logger)
	go hub.Run()

	// 5. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalCfg := mw.DefaultRateLimiterConfig()
		generalCfg.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		generalCfg.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(generalCfg)

		authCfg := mw.AuthRateLimiterConfig()
		authCfg.RequestsPerSecond = cfg.RateLimit.AuthRPS
		authCfg.BurstSize = cfg.RateLimit.AuthBurst
		authRateLimiter = mw.NewRateLimiter(authCfg)
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	userRepo := postgres.NewUserRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	bidRepo := postgres.NewBidRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)

	// Notifier (Secondary Adapter)
	notifier := email.NewMockSMTPNotifier(userRepo, cfg.Email.FromAddress, logger)

	// Services (Core). The hub doubles as the real-time notice dispatcher.
	authService := services.NewAuthService(userRepo, notifier)
	profileService := services.NewProfileService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	bidService := services.NewBidService(bidRepo, projectRepo, userRepo, hub)
	reviewService := services.NewReviewService(reviewRepo, projectRepo, hub)
	chatService := services.NewChatService(chatRepo, projectRepo)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(authService, tokenManager, errorHandler, logger)
	profileHandler := httpAdapter.NewProfileHandler(profileService, reviewService, errorHandler, logger)
	bidHandler := httpAdapter.NewBidHandler(bidService, errorHandler, logger)
	chatHandler := httpAdapter.NewChatHandler(chatService, errorHandler, logger)
	reviewHandler := httpAdapter.NewReviewHandler(reviewService, errorHandler, logger)
	projectHandler := httpAdapter.NewProjectHandler(projectService, bidHandler, chatHandler, reviewHandler, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(hub, tokenManager, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, hub, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.WebSocket.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	healthHandler.RegisterRoutes(r)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Mount("/auth", authHandler.Router())
		})

		// WebSocket route (Authentication is handled inside the handler)
		r.Get("/ws", wsHandler.ServeHTTP)

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			r.Mount("/projects", projectHandler.Router())
			r.Mount("/me", profileHandler.MeRouter())
			r.Mount("/professionals", profileHandler.ProfessionalsRouter())
		})
	})

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	// Let in-flight notification dispatches drain before exiting.
	bidService.Shutdown()
	reviewService.Shutdown()

	logger.Info("server shutdown complete")
}
