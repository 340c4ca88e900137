// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"postforge/internal/ai"
	"postforge/internal/discovery"
	"postforge/internal/images"
	"postforge/internal/models"
	"postforge/internal/slug"
)

type modelCall struct {
	topic   string
	context string
	opts    ai.BlogOptions
}

// fakeModel scripts draft generation. failTopics fail with an error.
type fakeModel struct {
	calls      []modelCall
	failTopics map[string]bool
	content    string
}

func (f *fakeModel) GenerateBlogPost(ctx context.Context, topic, contextInfo string, opts ai.BlogOptions) (*ai.BlogPost, error) {
	f.calls = append(f.calls, modelCall{topic: topic, context: contextInfo, opts: opts})
	if f.failTopics[topic] {
		return nil, errors.New("model overloaded")
	}
	content := f.content
	if content == "" {
		content = "Đoạn mở đầu.\n\n" + ai.PlaceholderImage + "\n\nPhân tích chính.\n\n" + ai.PlaceholderVideo + "\n\nKết luận."
	}
	return &ai.BlogPost{
		Title:   "Bài viết: " + topic,
		Content: content,
		Excerpt: "Tóm tắt.",
		Tags:    []string{"ai"},
		Model:   ai.ModelFast,
	}, nil
}

type fakeDiscovery struct {
	items  []discovery.Item
	err    error
	called int
}

func (f *fakeDiscovery) FindPopularPosts(ctx context.Context, opts discovery.PopularOptions) ([]discovery.Item, error) {
	f.called++
	return f.items, f.err
}

type fakeVideos struct {
	video  *discovery.ScrapedMedia
	err    error
	called int
}

func (f *fakeVideos) FindVideo(ctx context.Context, topic string) (*discovery.ScrapedMedia, error) {
	f.called++
	return f.video, f.err
}

type fakeImages struct {
	urls []string
}

func (f *fakeImages) FetchImages(ctx context.Context, topic string, count int) []images.Image {
	out := make([]images.Image, count)
	for i := range out {
		if i < len(f.urls) {
			out[i] = images.Image{URL: f.urls[i]}
		} else {
			out[i] = images.Image{URL: images.PlaceholderURL}
		}
	}
	return out
}

type fakeStore struct {
	created []*models.CreatePostInput
	err     error
}

func (f *fakeStore) Create(ctx context.Context, in *models.CreatePostInput) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &models.Post{Slug: slug.Generate(in.Title), Title: in.Title, Published: in.Published}, nil
}

func newTestGenerator(model *fakeModel, disc *fakeDiscovery, videos *fakeVideos, imgs *fakeImages, store *fakeStore) *Generator {
	cfg := Config{
		Model:           model,
		Images:          imgs,
		Posts:           store,
		Author:          "AI Content Team",
		DiscoveryTaskID: "apify/google-search-scraper",
	}
	if disc != nil {
		cfg.Discovery = disc
	}
	if videos != nil {
		cfg.Videos = videos
	}
	g := New(cfg)
	g.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return g
}

func TestGeneratePostFullPipeline(t *testing.T) {
	model := &fakeModel{}
	disc := &fakeDiscovery{items: []discovery.Item{
		{Title: "AI agents are rising", Content: "<p>agents everywhere</p>", URL: "https://example.com/agents"},
		{Title: "Other news", Content: "unrelated", URL: "https://example.com/other"},
	}}
	videos := &fakeVideos{video: &discovery.ScrapedMedia{
		Platform: discovery.PlatformYouTube,
		URL:      "https://youtu.be/dQw4w9WgXcQ",
		Title:    "clip",
	}}
	imgs := &fakeImages{urls: []string{"https://img/cover", "https://img/inline"}}
	store := &fakeStore{}
	g := newTestGenerator(model, disc, videos, imgs, store)

	post, err := g.GeneratePost(context.Background(), "AI agents", Options{})
	if err != nil {
		t.Fatalf("GeneratePost: %v", err)
	}
	if post.Slug == "" {
		t.Error("post should have a slug")
	}

	if len(store.created) != 1 {
		t.Fatalf("created %d posts", len(store.created))
	}
	in := store.created[0]

	if in.ImageURL != "https://img/cover" || in.ImageSource != models.ImageSourceUnsplash {
		t.Errorf("cover = %q/%q", in.ImageURL, in.ImageSource)
	}
	if in.SourceURL != "https://example.com/agents" {
		t.Errorf("SourceURL = %q, want the topic-relevant item", in.SourceURL)
	}
	if in.SourceTaskID != "apify/google-search-scraper" {
		t.Errorf("SourceTaskID = %q", in.SourceTaskID)
	}
	if in.Source != models.SourceGemini || !in.Published {
		t.Errorf("source/published = %v/%v", in.Source, in.Published)
	}
	if in.Prompt != "Generate extended blog post about: AI agents" {
		t.Errorf("Prompt = %q", in.Prompt)
	}

	// Both placeholders resolved into real embeds.
	if strings.Contains(in.Content, ai.PlaceholderImage) || strings.Contains(in.Content, ai.PlaceholderVideo) {
		t.Error("placeholders left in content")
	}
	if !strings.Contains(in.Content, "https://img/inline") {
		t.Error("inline image not inserted")
	}
	if !strings.Contains(in.Content, "youtube-nocookie.com/embed/dQw4w9WgXcQ") {
		t.Error("video embed not inserted")
	}

	// Media was available, so the model was asked for placeholders and
	// got the discovered context.
	call := model.calls[0]
	if !call.opts.IncludeMediaPlaceholders {
		t.Error("model should be asked for media placeholders")
	}
	if !strings.Contains(call.context, "Thông tin tham khảo") || !strings.Contains(call.context, "AI agents are rising") {
		t.Errorf("context = %q", call.context)
	}
	if strings.Contains(call.context, "<p>") {
		t.Error("HTML should be stripped from context")
	}
}

func TestGeneratePostDegradesWhenProvidersFail(t *testing.T) {
	model := &fakeModel{content: "Bài viết không có media."}
	disc := &fakeDiscovery{err: errors.New("apify down")}
	videos := &fakeVideos{err: errors.New("scrape down")}
	imgs := &fakeImages{} // placeholders only
	store := &fakeStore{}
	g := newTestGenerator(model, disc, videos, imgs, store)

	if _, err := g.GeneratePost(context.Background(), "AI agents", Options{}); err != nil {
		t.Fatalf("best-effort steps must not fail the post: %v", err)
	}

	in := store.created[0]
	if in.ImageURL != images.PlaceholderURL || in.ImageSource != models.ImageSourceManual {
		t.Errorf("cover = %q/%q, want placeholder/manual", in.ImageURL, in.ImageSource)
	}
	if in.SourceURL != "" || in.SourceTaskID != "" {
		t.Errorf("no discovery happened, source fields should be empty: %q/%q", in.SourceURL, in.SourceTaskID)
	}

	call := model.calls[0]
	if call.context != "" {
		t.Errorf("context = %q, want empty", call.context)
	}
	if call.opts.IncludeMediaPlaceholders {
		t.Error("no media available, placeholders should not be requested")
	}
}

func TestGeneratePostVideoMissingGetsPlaceholderBlock(t *testing.T) {
	model := &fakeModel{}
	videos := &fakeVideos{} // no video found, no error
	imgs := &fakeImages{urls: []string{"https://img/cover", "https://img/inline"}}
	store := &fakeStore{}
	g := newTestGenerator(model, nil, videos, imgs, store)

	if _, err := g.GeneratePost(context.Background(), "AI agents", Options{}); err != nil {
		t.Fatalf("GeneratePost: %v", err)
	}

	in := store.created[0]
	if !strings.Contains(in.Content, "sẽ được cập nhật sớm") {
		t.Error("missing video should become the coming-soon block")
	}
	if strings.Contains(in.Content, ai.PlaceholderVideo) {
		t.Error("video placeholder left in content")
	}
}

func TestGeneratePostModelFailureIsFatal(t *testing.T) {
	model := &fakeModel{failTopics: map[string]bool{"AI agents": true}}
	store := &fakeStore{}
	g := newTestGenerator(model, nil, nil, &fakeImages{}, store)

	if _, err := g.GeneratePost(context.Background(), "AI agents", Options{}); err == nil {
		t.Fatal("model failure must fail the post")
	}
	if len(store.created) != 0 {
		t.Error("nothing should be persisted after a failed draft")
	}
}

func TestGeneratePostStoreFailureIsFatal(t *testing.T) {
	g := newTestGenerator(&fakeModel{}, nil, nil, &fakeImages{}, &fakeStore{err: errors.New("db down")})

	if _, err := g.GeneratePost(context.Background(), "AI agents", Options{}); err == nil {
		t.Fatal("store failure must fail the post")
	}
}

func TestGeneratePostSkipFlags(t *testing.T) {
	disc := &fakeDiscovery{items: []discovery.Item{{Title: "x", URL: "https://x"}}}
	videos := &fakeVideos{}
	g := newTestGenerator(&fakeModel{}, disc, videos, &fakeImages{}, &fakeStore{})

	_, err := g.GeneratePost(context.Background(), "AI agents", Options{SkipDiscovery: true, SkipMediaScraping: true})
	if err != nil {
		t.Fatalf("GeneratePost: %v", err)
	}
	if disc.called != 0 {
		t.Error("discovery called despite SkipDiscovery")
	}
	if videos.called != 0 {
		t.Error("video search called despite SkipMediaScraping")
	}
}

func TestInsertMediaRemovesImageMarkerWithoutImage(t *testing.T) {
	content := "a\n" + ai.PlaceholderImage + "\nb\n[MEDIA_PLACEHOLDER_1]\nc"
	got := insertMedia(content, "", "", "chủ đề")

	if strings.Contains(got, ai.PlaceholderImage) {
		t.Error("image marker should be removed")
	}
	if strings.Contains(got, "MEDIA_PLACEHOLDER") {
		t.Error("legacy markers should be stripped")
	}
}

func TestBuildContextLimitsAndTruncates(t *testing.T) {
	long := strings.Repeat("x", 300)
	items := []discovery.Item{
		{Title: "One", Content: long},
		{Title: "Two", Content: "short"},
		{Title: "Three", Content: "short"},
		{Title: "Four", Content: "short"},
	}
	got := buildContext(items)

	if strings.Contains(got, "Four") {
		t.Error("context should use at most 3 items")
	}
	if strings.Contains(got, strings.Repeat("x", 201)) {
		t.Error("snippets should cap at 200 characters")
	}
	if !strings.HasPrefix(got, "Thông tin tham khảo từ các nguồn gần đây:") {
		t.Errorf("lead-in missing: %q", got)
	}
}

func TestBuildContextEmpty(t *testing.T) {
	if got := buildContext(nil); got != "" {
		t.Errorf("buildContext(nil) = %q", got)
	}
}
