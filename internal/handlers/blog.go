// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: generation triggers, the
// cron entrypoint and public post reads.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"postforge/internal/generator"
	"postforge/internal/models"
)

// maxBatchCount bounds a single generation request.
const maxBatchCount = 10

// PostGenerator runs the content pipeline.
type PostGenerator interface {
	GeneratePost(ctx context.Context, topic string, opts generator.Options) (*models.Post, error)
	GenerateBatch(ctx context.Context, opts generator.BatchOptions) *generator.BatchResult
}

// ResponseCache invalidates cached post responses after new content
// lands. A nil cache disables caching.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// Blog serves the generation and post-reading endpoints.
type Blog struct {
	generator PostGenerator
	posts     PostReader
	cache     ResponseCache
	cronCount int
}

// NewBlog creates the API handler set. cache may be nil.
func NewBlog(gen PostGenerator, posts PostReader, cache ResponseCache, cronCount int) *Blog {
	if cronCount <= 0 {
		cronCount = 1
	}
	return &Blog{generator: gen, posts: posts, cache: cache, cronCount: cronCount}
}

// generateRequest is the body of POST /api/blog/generate. All fields are
// optional; an empty body generates one discovered-topic post.
type generateRequest struct {
	Topic             string `json:"topic"`
	UseDeepThink      bool   `json:"useDeepThink"`
	UseDiscovery      *bool  `json:"useDiscovery"` // default true
	SkipMediaScraping bool   `json:"skipMediaScraping"`
	Count             int    `json:"count"`
}

type generateResponse struct {
	Success bool         `json:"success"`
	Post    *models.Post `json:"post,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type batchResponse struct {
	Success   bool                  `json:"success"`
	Generated int                   `json:"generated"`
	Failed    int                   `json:"failed"`
	Posts     []generator.BatchItem `json:"posts"`
}

// Generate handles POST /api/blog/generate. A topic produces a single
// post; otherwise count posts are generated from discovered topics.
func (b *Blog) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, generateResponse{Error: "invalid JSON body"})
		return
	}

	if req.Count < 0 || req.Count > maxBatchCount {
		writeJSON(w, http.StatusBadRequest, generateResponse{
			Error: "count must be between 1 and " + strconv.Itoa(maxBatchCount),
		})
		return
	}

	skipDiscovery := req.UseDiscovery != nil && !*req.UseDiscovery

	if req.Topic != "" {
		post, err := b.generator.GeneratePost(r.Context(), req.Topic, generator.Options{
			UseDeepThink:      req.UseDeepThink,
			SkipDiscovery:     skipDiscovery,
			SkipMediaScraping: req.SkipMediaScraping,
		})
		if err != nil {
			slog.Error("generation request failed", "topic", req.Topic, "error", err)
			writeJSON(w, http.StatusInternalServerError, generateResponse{Error: "generation failed"})
			return
		}
		b.invalidate(r.Context())
		writeJSON(w, http.StatusOK, generateResponse{Success: true, Post: post})
		return
	}

	result := b.generator.GenerateBatch(r.Context(), generator.BatchOptions{
		Count:             req.Count,
		UseDeepThink:      req.UseDeepThink,
		SkipDiscovery:     skipDiscovery,
		SkipMediaScraping: req.SkipMediaScraping,
	})
	if result.Success > 0 {
		b.invalidate(r.Context())
	}
	writeJSON(w, http.StatusOK, batchResponse{
		Success:   result.Failed == 0,
		Generated: result.Success,
		Failed:    result.Failed,
		Posts:     result.Posts,
	})
}

// CronGenerate handles POST /api/cron/generate-content, the scheduled
// batch entrypoint. The count query parameter overrides the configured
// default.
func (b *Blog) CronGenerate(w http.ResponseWriter, r *http.Request) {
	count := b.cronCount
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxBatchCount {
			writeJSON(w, http.StatusBadRequest, generateResponse{
				Error: "count must be between 1 and " + strconv.Itoa(maxBatchCount),
			})
			return
		}
		count = n
	}

	slog.Info("cron generation triggered", "count", count)

	result := b.generator.GenerateBatch(r.Context(), generator.BatchOptions{Count: count})
	if result.Success > 0 {
		b.invalidate(r.Context())
	}
	writeJSON(w, http.StatusOK, batchResponse{
		Success:   result.Failed == 0,
		Generated: result.Success,
		Failed:    result.Failed,
		Posts:     result.Posts,
	})
}

func (b *Blog) invalidate(ctx context.Context) {
	if b.cache != nil {
		b.cache.InvalidateAll(ctx)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
