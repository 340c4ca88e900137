// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generator

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"postforge/internal/discovery"
	"postforge/internal/slug"
)

// defaultTopics back the batch when topic discovery comes up short.
var defaultTopics = []string{
	"AI Automation Trends 2025",
	"Machine Learning Best Practices",
	"Generative AI Applications in Business",
	"Computer Vision và ứng dụng thực tế",
	"Natural Language Processing trong doanh nghiệp",
	"AI Ethics và Responsible AI",
	"Large Language Models và ChatGPT",
	"AI trong Healthcare và Medical Imaging",
}

// batchDelay spaces sequential generations to respect provider rate
// limits.
const batchDelay = 5 * time.Second

// BatchOptions controls a batch run.
type BatchOptions struct {
	Count             int // defaults to 1
	UseDeepThink      bool
	SkipDiscovery     bool
	SkipMediaScraping bool
}

// BatchItem is the outcome for one topic in a batch.
type BatchItem struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchResult summarizes a batch run.
type BatchResult struct {
	Success int         `json:"success"`
	Failed  int         `json:"failed"`
	Posts   []BatchItem `json:"posts"`
}

// GenerateBatch produces count posts sequentially. Topics come from
// discovery when available, padded from the default list. One failed
// post never aborts the rest; only context cancellation stops the run.
func (g *Generator) GenerateBatch(ctx context.Context, opts BatchOptions) *BatchResult {
	count := opts.Count
	if count <= 0 {
		count = 1
	}

	topics := g.discoverTopics(ctx, count, opts.SkipDiscovery)
	slog.Info("starting batch generation", "count", count, "topics", topics)

	result := &BatchResult{}
	postOpts := Options{
		UseDeepThink:      opts.UseDeepThink,
		SkipDiscovery:     opts.SkipDiscovery,
		SkipMediaScraping: opts.SkipMediaScraping,
	}

	for i, topic := range topics {
		post, err := g.GeneratePost(ctx, topic, postOpts)
		if err != nil {
			result.Failed++
			result.Posts = append(result.Posts, BatchItem{
				Title:   topic,
				Slug:    slug.Generate(topic),
				Success: false,
				Error:   err.Error(),
			})
			slog.Error("batch post failed", "topic", topic, "error", err)
			if ctx.Err() != nil {
				break
			}
		} else {
			result.Success++
			result.Posts = append(result.Posts, BatchItem{
				Title:   post.Title,
				Slug:    post.Slug,
				Success: true,
			})
		}

		if i < len(topics)-1 {
			if err := g.sleep(ctx, batchDelay); err != nil {
				break
			}
		}
	}

	slog.Info("batch complete", "success", result.Success, "failed", result.Failed)
	return result
}

// discoverTopics derives batch topics from trending discovered posts
// and pads with shuffled defaults.
func (g *Generator) discoverTopics(ctx context.Context, count int, skipDiscovery bool) []string {
	var topics []string

	if !skipDiscovery && g.cfg.Discovery != nil {
		items, err := g.cfg.Discovery.FindPopularPosts(ctx, discovery.PopularOptions{MaxResults: count * 2})
		if err != nil {
			slog.Warn("topic discovery failed", "error", err)
		} else {
			topics = topicsFromItems(items, count)
			slog.Info("discovered topics", "count", len(topics))
		}
	}

	if len(topics) < count {
		shuffled := make([]string, len(defaultTopics))
		copy(shuffled, defaultTopics)
		rand.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		topics = append(topics, shuffled...)
	}
	if len(topics) > count {
		topics = topics[:count]
	}
	return topics
}

// topicsFromItems condenses discovered titles into topics: the first
// five words longer than three characters, deduplicated, short stubs
// dropped.
func topicsFromItems(items []discovery.Item, count int) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, item := range items {
		if len(topics) == count {
			break
		}
		var words []string
		for _, w := range strings.Fields(item.Title) {
			if len([]rune(w)) > 3 {
				words = append(words, w)
			}
			if len(words) == 5 {
				break
			}
		}
		topic := strings.Join(words, " ")
		if len([]rune(topic)) <= 10 || seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
	}
	return topics
}
