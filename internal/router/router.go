// Package router sets up the HTTP routes and middleware chains for the
// content generation API. Generation endpoints sit behind bearer auth
// and rate limiting; post reads are public.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"postforge/internal/handlers"
	"postforge/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(blog *handlers.Blog, adminSecret, cronSecret string, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check — no auth.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Manual generation trigger — operator token, rate limited.
		r.Route("/blog", func(r chi.Router) {
			r.Use(middleware.RequireBearer(adminSecret))
			r.Use(limiter.Middleware)
			r.Post("/generate", blog.Generate)
		})

		// Scheduled generation — separate token so the cron runner never
		// holds the operator secret.
		r.Route("/cron", func(r chi.Router) {
			r.Use(middleware.RequireBearer(cronSecret))
			r.Post("/generate-content", blog.CronGenerate)
		})

		// Public reads.
		r.Get("/posts", blog.ListPosts)
		r.Get("/posts/{slug}", blog.GetPost)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
