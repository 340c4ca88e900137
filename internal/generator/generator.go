// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator orchestrates the post generation pipeline: stock
// images, discovered context and an embeddable video feed the model
// call, media is spliced into the draft, and the result is persisted.
// The media and context steps are best-effort; only the model call and
// the database write can fail a post.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"postforge/internal/ai"
	"postforge/internal/discovery"
	"postforge/internal/embeds"
	"postforge/internal/images"
	"postforge/internal/models"
)

// BlogModel writes post drafts.
type BlogModel interface {
	GenerateBlogPost(ctx context.Context, topic, contextInfo string, opts ai.BlogOptions) (*ai.BlogPost, error)
}

// Discoverer finds trending source material.
type Discoverer interface {
	FindPopularPosts(ctx context.Context, opts discovery.PopularOptions) ([]discovery.Item, error)
}

// VideoFinder locates one embeddable video for a topic.
type VideoFinder interface {
	FindVideo(ctx context.Context, topic string) (*discovery.ScrapedMedia, error)
}

// ImageFetcher resolves image slots for a topic.
type ImageFetcher interface {
	FetchImages(ctx context.Context, topic string, count int) []images.Image
}

// PostCreator persists finished posts.
type PostCreator interface {
	Create(ctx context.Context, in *models.CreatePostInput) (*models.Post, error)
}

// Config wires the generator's collaborators. Discovery and Videos are
// optional; a nil client skips the corresponding pipeline step.
type Config struct {
	Model           BlogModel
	Discovery       Discoverer
	Videos          VideoFinder
	Images          ImageFetcher
	Posts           PostCreator
	Author          string
	DiscoveryTaskID string // recorded on posts that used discovered context
}

// Generator runs the content generation pipeline.
type Generator struct {
	cfg   Config
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Generator.
func New(cfg Config) *Generator {
	return &Generator{cfg: cfg, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Options controls a single post generation.
type Options struct {
	UseDeepThink      bool
	SkipDiscovery     bool // skip the context discovery step
	SkipMediaScraping bool // skip the video search step
}

var legacyPlaceholderRe = regexp.MustCompile(`\[MEDIA_PLACEHOLDER_\d+\]`)

// GeneratePost runs the full pipeline for one topic. Image, context and
// video problems degrade the post; a failed model call or database
// write fails it.
func (g *Generator) GeneratePost(ctx context.Context, topic string, opts Options) (*models.Post, error) {
	slog.Info("generating post", "topic", topic, "deep_think", opts.UseDeepThink)

	// Two image slots: cover first, inline second. Placeholder slots
	// mean the provider had nothing for us.
	coverURL := images.PlaceholderURL
	imageSource := models.ImageSourceManual
	inlineURL := ""

	imgs := g.cfg.Images.FetchImages(ctx, topic, 2)
	if len(imgs) > 0 && imgs[0].URL != images.PlaceholderURL {
		coverURL = imgs[0].URL
		imageSource = models.ImageSourceUnsplash
	}
	if len(imgs) > 1 && imgs[1].URL != images.PlaceholderURL {
		inlineURL = imgs[1].URL
	}

	// Context from discovered posts, best-effort.
	contextInfo := ""
	sourceURL := ""
	if !opts.SkipDiscovery && g.cfg.Discovery != nil {
		items, err := g.cfg.Discovery.FindPopularPosts(ctx, discovery.PopularOptions{MaxResults: 5})
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("context discovery failed", "topic", topic, "error", err)
		case len(items) > 0:
			contextInfo = buildContext(items)
			sourceURL = relevantItem(items, topic).URL
			slog.Info("discovered context", "topic", topic, "sources", len(items))
		}
	}

	// One video via platform rotation, best-effort.
	videoEmbed := ""
	if !opts.SkipMediaScraping && g.cfg.Videos != nil {
		video, err := g.cfg.Videos.FindVideo(ctx, topic)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			slog.Warn("video search failed", "topic", topic, "error", err)
		} else if video != nil {
			videoEmbed = embeds.Media(*video)
		}
	}

	blogPost, err := g.cfg.Model.GenerateBlogPost(ctx, topic, contextInfo, ai.BlogOptions{
		UseDeepThink:             opts.UseDeepThink,
		Length:                   ai.LengthExtended,
		IncludeMediaPlaceholders: inlineURL != "" || videoEmbed != "",
	})
	if err != nil {
		return nil, fmt.Errorf("generate post %q: %w", topic, err)
	}

	finalContent := insertMedia(blogPost.Content, inlineURL, videoEmbed, topic)

	input := &models.CreatePostInput{
		Title:         blogPost.Title,
		Content:       finalContent,
		Excerpt:       blogPost.Excerpt,
		Author:        g.cfg.Author,
		Source:        models.SourceGemini,
		Tags:          blogPost.Tags,
		ImageURL:      coverURL,
		ImageSource:   imageSource,
		SourceURL:     sourceURL,
		SourceTaskID:  sourceTaskID(sourceURL, g.cfg.DiscoveryTaskID),
		Model:         blogPost.Model,
		Prompt:        "Generate extended blog post about: " + topic,
		DeepThinkUsed: opts.UseDeepThink,
		Published:     true,
	}

	post, err := g.cfg.Posts.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("save post %q: %w", topic, err)
	}

	slog.Info("post generated",
		"slug", post.Slug,
		"cover", imageSource,
		"inline_image", inlineURL != "",
		"video", videoEmbed != "",
	)
	return post, nil
}

func sourceTaskID(sourceURL, taskID string) string {
	if sourceURL == "" {
		return ""
	}
	return taskID
}

// relevantItem picks the discovered item matching the topic's first
// word, falling back to the first item.
func relevantItem(items []discovery.Item, topic string) discovery.Item {
	words := strings.Fields(strings.ToLower(topic))
	if len(words) > 0 {
		first := words[0]
		for _, item := range items {
			if strings.Contains(strings.ToLower(item.Title), first) ||
				strings.Contains(strings.ToLower(item.Content), first) {
				return item
			}
		}
	}
	return items[0]
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// buildContext formats up to three discovered items as a numbered
// reference list for the model prompt.
func buildContext(items []discovery.Item) string {
	if len(items) == 0 {
		return ""
	}
	if len(items) > 3 {
		items = items[:3]
	}

	parts := make([]string, 0, len(items))
	for i, item := range items {
		clean := htmlTagRe.ReplaceAllString(item.Content, "")
		if r := []rune(clean); len(r) > 200 {
			clean = string(r[:200])
		}
		parts = append(parts, fmt.Sprintf("%d. %s\n   %s...", i+1, item.Title, clean))
	}
	return "Thông tin tham khảo từ các nguồn gần đây:\n" + strings.Join(parts, "\n\n")
}

// insertMedia resolves the draft's placeholders. A missing image slot
// removes the marker; a missing video becomes the "coming soon" block.
// Old-style numbered markers are stripped.
func insertMedia(content, inlineImageURL, videoEmbed, topic string) string {
	result := content

	if strings.Contains(result, ai.PlaceholderImage) {
		imageHTML := ""
		if inlineImageURL != "" {
			imageHTML = embeds.Image(inlineImageURL, "Hình minh họa về "+topic, "Nguồn: Unsplash")
		}
		result = strings.Replace(result, ai.PlaceholderImage, imageHTML, 1)
	}

	if strings.Contains(result, ai.PlaceholderVideo) {
		if videoEmbed == "" {
			videoEmbed = embeds.MediaPlaceholder(topic)
		}
		result = strings.Replace(result, ai.PlaceholderVideo, videoEmbed, 1)
	}

	return legacyPlaceholderRe.ReplaceAllString(result, "")
}
