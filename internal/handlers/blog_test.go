// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"postforge/internal/generator"
	"postforge/internal/models"
)

type fakeGenerator struct {
	singleOpts *generator.Options
	topic      string
	batchOpts  *generator.BatchOptions
	err        error
}

func (f *fakeGenerator) GeneratePost(ctx context.Context, topic string, opts generator.Options) (*models.Post, error) {
	f.topic = topic
	f.singleOpts = &opts
	if f.err != nil {
		return nil, f.err
	}
	return &models.Post{Slug: "bai-viet", Title: topic, Published: true}, nil
}

func (f *fakeGenerator) GenerateBatch(ctx context.Context, opts generator.BatchOptions) *generator.BatchResult {
	f.batchOpts = &opts
	count := opts.Count
	if count <= 0 {
		count = 1
	}
	result := &generator.BatchResult{Success: count}
	for i := 0; i < count; i++ {
		result.Posts = append(result.Posts, generator.BatchItem{Title: "t", Slug: "s", Success: true})
	}
	return result
}

type fakeCache struct {
	data        map[string][]byte
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, ok := f.data[key]
	return body, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, body []byte) {
	f.data[key] = body
}

func (f *fakeCache) InvalidateAll(ctx context.Context) {
	f.data = make(map[string][]byte)
	f.invalidated++
}

func TestGenerateSinglePost(t *testing.T) {
	gen := &fakeGenerator{}
	cache := newFakeCache()
	b := NewBlog(gen, nil, cache, 1)

	body := `{"topic":"AI agents","useDeepThink":true,"useDiscovery":false}`
	req := httptest.NewRequest(http.MethodPost, "/api/blog/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	b.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp generateResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Post == nil || resp.Post.Slug != "bai-viet" {
		t.Errorf("resp = %+v", resp)
	}

	if gen.topic != "AI agents" {
		t.Errorf("topic = %q", gen.topic)
	}
	if !gen.singleOpts.UseDeepThink || !gen.singleOpts.SkipDiscovery {
		t.Errorf("opts = %+v", gen.singleOpts)
	}
	if cache.invalidated != 1 {
		t.Error("cache should be invalidated after generation")
	}
}

func TestGenerateDefaultsToDiscovery(t *testing.T) {
	gen := &fakeGenerator{}
	b := NewBlog(gen, nil, nil, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/blog/generate", strings.NewReader(`{"topic":"x"}`))
	rec := httptest.NewRecorder()
	b.Generate(rec, req)

	if gen.singleOpts.SkipDiscovery {
		t.Error("discovery should default to on")
	}
}

func TestGenerateEmptyBodyRunsBatchOfOne(t *testing.T) {
	gen := &fakeGenerator{}
	b := NewBlog(gen, nil, nil, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/blog/generate", nil)
	rec := httptest.NewRecorder()
	b.Generate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gen.batchOpts == nil || gen.batchOpts.Count != 0 {
		t.Errorf("batchOpts = %+v", gen.batchOpts)
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"topic":`},
		{"count too high", `{"count":11}`},
		{"negative count", `{"count":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBlog(&fakeGenerator{}, nil, nil, 1)
			req := httptest.NewRequest(http.MethodPost, "/api/blog/generate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			b.Generate(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestGenerateFailureReturns500(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	cache := newFakeCache()
	b := NewBlog(gen, nil, cache, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/blog/generate", strings.NewReader(`{"topic":"x"}`))
	rec := httptest.NewRecorder()
	b.Generate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if cache.invalidated != 0 {
		t.Error("failed generation must not invalidate the cache")
	}
}

func TestCronGenerateUsesConfiguredCount(t *testing.T) {
	gen := &fakeGenerator{}
	b := NewBlog(gen, nil, nil, 3)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-content", nil)
	rec := httptest.NewRecorder()
	b.CronGenerate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gen.batchOpts.Count != 3 {
		t.Errorf("count = %d, want 3", gen.batchOpts.Count)
	}

	var resp batchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Generated != 3 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCronGenerateCountOverride(t *testing.T) {
	gen := &fakeGenerator{}
	b := NewBlog(gen, nil, nil, 1)

	req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-content?count=2", nil)
	rec := httptest.NewRecorder()
	b.CronGenerate(rec, req)

	if gen.batchOpts.Count != 2 {
		t.Errorf("count = %d, want 2", gen.batchOpts.Count)
	}
}

func TestCronGenerateRejectsBadCount(t *testing.T) {
	for _, raw := range []string{"0", "abc", "99"} {
		req := httptest.NewRequest(http.MethodPost, "/api/cron/generate-content?count="+raw, nil)
		rec := httptest.NewRecorder()
		NewBlog(&fakeGenerator{}, nil, nil, 1).CronGenerate(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("count=%s: status = %d, want 400", raw, rec.Code)
		}
	}
}
