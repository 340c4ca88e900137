// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package scraper finds one embeddable video for a topic. Platforms
// rotate hourly so consecutive posts vary their sources; each platform
// gets a bounded number of attempts with exponential backoff before the
// search falls through to YouTube, which works for any topic.
package scraper

import (
	"context"
	"log/slog"
	"time"

	"postforge/internal/discovery"
)

// videoPlatforms is the rotation set, in rotation order.
var videoPlatforms = []discovery.Platform{
	discovery.PlatformYouTube,
	discovery.PlatformTikTok,
}

// universalPlatform is always tried last; its catalog covers any topic.
const universalPlatform = discovery.PlatformYouTube

const (
	maxAttemptsPerPlatform = 3
	resultsPerSearch       = 3
	maxRetryDelay          = 10 * time.Second
)

// VideoSource searches one platform for embeddable videos.
type VideoSource interface {
	SearchVideos(ctx context.Context, platform discovery.Platform, query string, maxResults int) ([]discovery.ScrapedMedia, error)
}

// Scraper runs the platform rotation and retry policy over a VideoSource.
type Scraper struct {
	source VideoSource
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

// New creates a Scraper using the wall clock and real delays.
func New(source VideoSource) *Scraper {
	return &Scraper{
		source: source,
		now:    time.Now,
		sleep:  sleepCtx,
	}
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

// primaryPlatform picks the rotation slot for the current hour.
func (s *Scraper) primaryPlatform() discovery.Platform {
	return videoPlatforms[s.now().Hour()%len(videoPlatforms)]
}

// trialOrder builds the platform order: primary first, the remaining
// non-universal platforms in rotation order, and the universal platform
// last. No platform appears twice.
func trialOrder(primary discovery.Platform) []discovery.Platform {
	order := []discovery.Platform{primary}
	for _, p := range videoPlatforms {
		if p != primary && p != universalPlatform {
			order = append(order, p)
		}
	}
	if primary != universalPlatform {
		order = append(order, universalPlatform)
	}
	return order
}

// retryDelay returns the backoff before the next attempt on the same
// platform: 2s, 4s, ... capped at 10s.
func retryDelay(attempt int) time.Duration {
	d := time.Second * (1 << attempt)
	if d > maxRetryDelay {
		return maxRetryDelay
	}
	return d
}

// searchPlatform tries one platform up to maxAttemptsPerPlatform times.
// Empty results and provider errors both count as failed attempts; there
// is no wait after the final attempt.
func (s *Scraper) searchPlatform(ctx context.Context, platform discovery.Platform, topic string) (*discovery.ScrapedMedia, error) {
	for attempt := 1; attempt <= maxAttemptsPerPlatform; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		videos, err := s.source.SearchVideos(ctx, platform, topic, resultsPerSearch)
		if err != nil {
			slog.Warn("video search attempt failed",
				"platform", platform, "attempt", attempt, "error", err)
		} else if len(videos) > 0 {
			slog.Info("video found", "platform", platform, "attempt", attempt, "title", videos[0].Title)
			return &videos[0], nil
		} else {
			slog.Info("video search empty", "platform", platform, "attempt", attempt)
		}

		if attempt < maxAttemptsPerPlatform {
			if err := s.sleep(ctx, retryDelay(attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, nil
}

// FindVideo searches the platforms in rotation order and returns the
// first hit. Exhausting every platform is not an error; the caller gets
// nil and degrades to a placeholder.
func (s *Scraper) FindVideo(ctx context.Context, topic string) (*discovery.ScrapedMedia, error) {
	primary := s.primaryPlatform()
	order := trialOrder(primary)
	slog.Info("video platform rotation", "primary", primary, "order", order)

	for _, platform := range order {
		video, err := s.searchPlatform(ctx, platform, topic)
		if err != nil {
			return nil, err
		}
		if video != nil {
			return video, nil
		}
	}

	slog.Info("no video found on any platform", "topic", topic)
	return nil, nil
}
