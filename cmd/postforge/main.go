// Package main is the entry point for the PostForge server. It loads
// configuration, connects to services, wires the generation pipeline,
// and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"postforge/internal/ai"
	"postforge/internal/cache"
	"postforge/internal/config"
	"postforge/internal/database"
	"postforge/internal/discovery"
	"postforge/internal/generator"
	"postforge/internal/handlers"
	"postforge/internal/images"
	"postforge/internal/middleware"
	"postforge/internal/router"
	"postforge/internal/scheduler"
	"postforge/internal/scraper"
	"postforge/internal/store"
)

func main() {
	// Local development reads .env; in deployments the variables come
	// from the environment and the file is simply absent.
	godotenv.Load()

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger — JSON in production, readable text elsewhere.
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

	// Connect to Valkey (Redis-compatible response cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	postCache := cache.NewPostCache(valkeyClient, cache.DefaultPostTTL)
	postStore := store.NewPostStore(db)

	// Gemini is mandatory: without a model there is nothing to serve.
	model, err := ai.New(ai.Config{
		APIKey:    cfg.GeminiAPIKey,
		BaseURL:   cfg.GeminiBaseURL,
		Model:     cfg.GeminiModel,
		DeepModel: cfg.GeminiDeepModel,
	})
	if err != nil {
		slog.Error("failed to initialize gemini", "error", err)
		os.Exit(1)
	}

	// Apify is optional: without it discovery and video scraping are
	// skipped and posts are generated from the topic alone.
	var discoveryClient *discovery.Client
	if cfg.ApifyToken != "" {
		discoveryClient, err = discovery.New(discovery.Config{
			Token:         cfg.ApifyToken,
			DefaultTaskID: cfg.ApifyTaskID,
			BaseURL:       cfg.ApifyBaseURL,
		})
		if err != nil {
			slog.Error("failed to initialize apify", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("APIFY_TOKEN not set — discovery and video scraping disabled")
	}

	// Unsplash is optional too; without a key every image slot gets the
	// placeholder.
	imageClient := images.New(images.Config{
		AccessKey: cfg.UnsplashAccessKey,
		BaseURL:   cfg.UnsplashBaseURL,
	})
	defer imageClient.Close()
	if !imageClient.Configured() {
		slog.Warn("UNSPLASH_ACCESS_KEY not set — using placeholder images")
	}

	genCfg := generator.Config{
		Model:           model,
		Images:          imageClient,
		Posts:           postStore,
		Author:          cfg.Author,
		DiscoveryTaskID: cfg.ApifyTaskID,
	}
	if discoveryClient != nil {
		genCfg.Discovery = discoveryClient
		genCfg.Videos = scraper.New(discoveryClient)
	}
	gen := generator.New(genCfg)

	// Scheduled batch generation and cleanup.
	var sched *scheduler.Scheduler
	if cfg.SchedulerEnabled {
		sched, err = scheduler.New(scheduler.Config{
			GenerateSchedule: cfg.GenerateSchedule,
			GenerateCount:    cfg.GenerateCount,
			CleanupSchedule:  cfg.CleanupSchedule,
			RetentionDays:    cfg.RetentionDays,
			KeepMinPosts:     cfg.KeepMinPosts,
		}, gen, postStore, postCache)
		if err != nil {
			slog.Error("failed to initialize scheduler", "error", err)
			os.Exit(1)
		}
		sched.Start()
	} else {
		slog.Info("scheduler disabled")
	}

	// Generation is expensive; keep the trigger endpoints on a tight
	// per-IP budget.
	limiter := middleware.NewRateLimiter(10, time.Minute)
	defer limiter.Stop()

	blog := handlers.NewBlog(gen, postStore, postCache, cfg.GenerateCount)
	r := router.New(blog, cfg.AdminSecret, cfg.CronSecret, limiter)

	// WriteTimeout must accommodate batch generation requests, which run
	// a chain of model calls per post.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Minute,
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

	if sched != nil {
		sched.Stop()
	}

	slog.Info("server stopped gracefully")
}
