// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"postforge/internal/cache"
	"postforge/internal/markdown"
	"postforge/internal/models"
)

// PostReader provides read access to stored posts.
type PostReader interface {
	List(ctx context.Context, publishedOnly bool) ([]models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
}

type postListResponse struct {
	Posts []models.Post `json:"posts"`
	Count int           `json:"count"`
}

// ListPosts handles GET /api/posts. The published query parameter
// defaults to true; published=false returns drafts too. Responses are
// cached.
func (b *Blog) ListPosts(w http.ResponseWriter, r *http.Request) {
	publishedOnly := r.URL.Query().Get("published") != "false"

	key := cache.ListKey(publishedOnly)
	if b.serveCached(w, r, key) {
		return
	}

	posts, err := b.posts.List(r.Context(), publishedOnly)
	if err != nil {
		slog.Error("list posts failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load posts"})
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	b.writeCacheable(w, r, key, postListResponse{Posts: posts, Count: len(posts)})
}

// postResponse adds the rendered body alongside the stored Markdown.
type postResponse struct {
	*models.Post
	ContentHTML string `json:"content_html"`
}

// GetPost handles GET /api/posts/{slug}. The body is stored as Markdown
// and rendered to HTML on the way out. Responses are cached.
func (b *Blog) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	key := cache.SlugKey(slug)
	if b.serveCached(w, r, key) {
		return
	}

	post, err := b.posts.FindBySlug(r.Context(), slug)
	if err != nil {
		slog.Error("get post failed", "slug", slug, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load post"})
		return
	}
	if post == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "post not found"})
		return
	}

	rendered, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Warn("render post body failed", "slug", slug, "error", err)
	}

	b.writeCacheable(w, r, key, postResponse{Post: post, ContentHTML: rendered})
}

// serveCached writes the cached response body when present.
func (b *Blog) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if b.cache == nil {
		return false
	}
	body, ok := b.cache.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "HIT")
	w.Write(body)
	return true
}

// writeCacheable serializes data once, stores it under key, and writes
// it as the response.
func (b *Blog) writeCacheable(w http.ResponseWriter, r *http.Request, key string, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("marshal response failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if b.cache != nil {
		b.cache.Set(r.Context(), key, body)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}
