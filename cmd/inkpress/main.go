// Package main is the entry point for the inkpress server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkpress/internal/auth"
	"inkpress/internal/config"
	"inkpress/internal/database"
	"inkpress/internal/gql"
	"inkpress/internal/middleware"
	"inkpress/internal/resolver"
	"inkpress/internal/router"
	"inkpress/internal/storage"
	"inkpress/internal/store"
)

const (
	// tokenTTL is how long an issued bearer token stays valid.
	tokenTTL = 24 * time.Hour

	// Per-IP request budget. Generous for a single-page client, tight
	// enough to blunt credential stuffing.
	rateLimit  = 300
	rateWindow = time.Minute
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Redis (token revocation list).
	redisClient, err := auth.ConnectRedis(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)

	// Auth plumbing: token issuance and the Redis-backed revocation list.
	tokens := auth.NewTokenService(cfg.JWTSecret, tokenTTL)
	revoked := auth.NewBlacklist(redisClient)

	// Local file storage for uploads, served under /public.
	files := storage.NewLocal(cfg.UploadDir, cfg.PublicURL)

	// Resolvers.
	categoryResolver := resolver.NewCategory(categoryStore, postStore, userStore)
	postResolver := resolver.NewPost(postStore, categoryStore, userStore)
	fileResolver := resolver.NewFile(files)
	authResolver := resolver.NewAuth(userStore, tokens, revoked)

	// GraphQL schema and endpoint handler.
	schema, err := gql.NewSchema(categoryResolver, postResolver, fileResolver, authResolver)
	if err != nil {
		slog.Error("failed to build graphql schema", "error", err)
		os.Exit(1)
	}
	gqlHandler := gql.NewHandler(schema)

	// Per-IP rate limiting across the whole API.
	limiter := middleware.NewRateLimiter(rateLimit, rateWindow)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(gqlHandler, tokens, revoked, limiter, files.Dir())

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate large multipart uploads.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
