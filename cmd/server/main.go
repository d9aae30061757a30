package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/ornithedex/server/internal/config"
	"github.com/ornithedex/server/internal/handlers"
	"github.com/ornithedex/server/internal/middleware"
	"github.com/ornithedex/server/internal/observability"
	"github.com/ornithedex/server/internal/repository"
	"github.com/ornithedex/server/internal/services"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	telemetry, err := observability.Initialize(ctx, observability.NewConfig("ornithedex-server", serviceVersion))
	if err != nil {
		log.Printf("Warning: telemetry init failed: %v", err)
	}

	// Database
	var db *sql.DB
	if cfg.UsePostgres() {
		log.Println("Using PostgreSQL database")
		db, err = repository.NewPostgresDB(cfg.DatabaseURL)
	} else {
		log.Println("Using SQLite database")
		db, err = repository.NewSQLiteDB(cfg.DatabasePath)
	}
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	discoveryRepo := repository.NewDiscoveryRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	cache := services.NewViewCache()
	codec := services.NewImageCodecWith(cfg.Codec.MaxDimension, cfg.Codec.Quality)
	exif := services.NewEXIFService()
	sanitizer := services.NewSanitizer()
	hub := services.NewEventHub()

	authService := services.NewAuthService(userRepo, sessionRepo, statsRepo)
	syncService := services.NewSyncService(discoveryRepo, statsRepo, cache, codec, exif, sanitizer, hub)
	discoveryService := services.NewDiscoveryService(discoveryRepo, cache)
	shareService := services.NewShareService(userRepo, discoveryRepo)
	adminService := services.NewAdminService(userRepo, discoveryRepo)
	catalogService := services.NewCatalogService(cfg.CatalogPath, cache)

	go authService.StartSessionCleanup(ctx, cfg.CleanupInterval())

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	discoveryHandler := handlers.NewDiscoveryHandler(discoveryService, syncService)
	shareHandler := handlers.NewShareHandler(shareService)
	adminHandler := handlers.NewAdminHandler(adminService)
	themeHandler := handlers.NewThemeHandler(authService)
	birdsHandler := handlers.NewBirdsHandler(catalogService)
	healthHandler := handlers.NewHealthHandler(db)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(observability.TracingMiddleware("ornithedex-server"))

	if httpMetrics, err := observability.NewHTTPMetrics(); err == nil {
		r.Use(observability.MetricsMiddleware(httpMetrics))
	} else {
		log.Printf("Warning: HTTP metrics unavailable: %v", err)
	}

	sessionAuth := middleware.SessionAuth(sessionRepo, userRepo)

	// Public routes
	r.Get("/health", healthHandler.Health)
	r.Get("/api/health", healthHandler.Health)
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)
	r.Get("/api/share/{token}", shareHandler.GetSharedProfile)

	// Session-aware but anonymous-tolerant
	r.With(middleware.OptionalSession(sessionRepo, userRepo)).Get("/api/session", authHandler.Me)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(sessionAuth)

		r.Post("/api/logout", authHandler.Logout)
		r.Post("/api/theme", themeHandler.UpdateTheme)

		r.Get("/api/discoveries", discoveryHandler.GetDiscoveries)
		r.Post("/api/discoveries", discoveryHandler.SaveDiscoveries)
		r.Get("/api/discoveries/light", discoveryHandler.GetLight)
		r.Get("/api/discoveries/metadata", discoveryHandler.GetMetadata)
		r.Get("/api/discoveries/gallery", discoveryHandler.GetGallery)
		r.Get("/api/photo/{birdNumber}/{photoID}", discoveryHandler.GetPhoto)

		r.Get("/api/birds", birdsHandler.GetCatalog)

		r.Get("/api/share/token", shareHandler.GetToken)
		r.Post("/api/share/regenerate", shareHandler.RegenerateToken)

		r.Get("/ws", wsHandler.Connect)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminOnly)
			r.Get("/api/admin/stats", adminHandler.GetStats)
			r.Post("/api/admin/promote/{userID}", adminHandler.PromoteUser)
		})
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Sync payloads carry full-size images
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Ornithedex server starting on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	hub.Close()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: telemetry shutdown failed: %v", err)
		}
	}

	log.Println("Server stopped")
}
