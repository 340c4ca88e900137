// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"postforge/internal/discovery"
)

// fakeSource scripts per-platform outcomes and records every call.
type fakeSource struct {
	calls   []discovery.Platform
	results map[discovery.Platform][]discovery.ScrapedMedia
	errs    map[discovery.Platform]error
}

func (f *fakeSource) SearchVideos(ctx context.Context, platform discovery.Platform, query string, maxResults int) ([]discovery.ScrapedMedia, error) {
	f.calls = append(f.calls, platform)
	if err := f.errs[platform]; err != nil {
		return nil, err
	}
	return f.results[platform], nil
}

// newTestScraper pins the clock to the given hour and records sleeps
// instead of waiting.
func newTestScraper(source VideoSource, hour int, slept *[]time.Duration) *Scraper {
	s := New(source)
	s.now = func() time.Time {
		return time.Date(2026, 3, 10, hour, 0, 0, 0, time.UTC)
	}
	s.sleep = func(ctx context.Context, d time.Duration) error {
		if slept != nil {
			*slept = append(*slept, d)
		}
		return nil
	}
	return s
}

func TestTrialOrderFromYouTube(t *testing.T) {
	order := trialOrder(discovery.PlatformYouTube)
	want := []discovery.Platform{discovery.PlatformYouTube, discovery.PlatformTikTok}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %v, want %v", i, order[i], want[i])
		}
	}
}

func TestTrialOrderFromTikTokEndsWithUniversal(t *testing.T) {
	order := trialOrder(discovery.PlatformTikTok)
	if order[0] != discovery.PlatformTikTok {
		t.Errorf("order[0] = %v, want primary first", order[0])
	}
	if order[len(order)-1] != discovery.PlatformYouTube {
		t.Errorf("last = %v, want universal platform", order[len(order)-1])
	}
	seen := map[discovery.Platform]bool{}
	for _, p := range order {
		if seen[p] {
			t.Errorf("platform %v appears twice in %v", p, order)
		}
		seen[p] = true
	}
}

func TestPrimaryPlatformRotatesHourly(t *testing.T) {
	src := &fakeSource{}
	even := newTestScraper(src, 2, nil)
	odd := newTestScraper(src, 3, nil)

	if even.primaryPlatform() != discovery.PlatformYouTube {
		t.Errorf("hour 2 primary = %v", even.primaryPlatform())
	}
	if odd.primaryPlatform() != discovery.PlatformTikTok {
		t.Errorf("hour 3 primary = %v", odd.primaryPlatform())
	}
}

func TestFindVideoFirstHitWins(t *testing.T) {
	src := &fakeSource{
		results: map[discovery.Platform][]discovery.ScrapedMedia{
			discovery.PlatformYouTube: {{Platform: discovery.PlatformYouTube, URL: "https://youtu.be/abcdefghijk", Title: "hit"}},
		},
	}
	s := newTestScraper(src, 0, nil)

	video, err := s.FindVideo(context.Background(), "ai")
	if err != nil {
		t.Fatalf("FindVideo: %v", err)
	}
	if video == nil || video.Title != "hit" {
		t.Fatalf("video = %+v", video)
	}
	if len(src.calls) != 1 {
		t.Errorf("made %d calls, want 1", len(src.calls))
	}
}

func TestFindVideoRetryBoundPerPlatform(t *testing.T) {
	src := &fakeSource{
		errs: map[discovery.Platform]error{
			discovery.PlatformYouTube: errors.New("down"),
			discovery.PlatformTikTok:  errors.New("down"),
		},
	}
	var slept []time.Duration
	s := newTestScraper(src, 0, &slept)

	video, err := s.FindVideo(context.Background(), "ai")
	if err != nil {
		t.Fatalf("FindVideo: %v", err)
	}
	if video != nil {
		t.Fatalf("video = %+v, want nil", video)
	}

	// Exactly 3 attempts per platform, exhaustion is not an error.
	perPlatform := map[discovery.Platform]int{}
	for _, p := range src.calls {
		perPlatform[p]++
	}
	for p, n := range perPlatform {
		if n != maxAttemptsPerPlatform {
			t.Errorf("platform %v got %d attempts, want %d", p, n, maxAttemptsPerPlatform)
		}
	}

	// 2 waits per platform (none after the final attempt), backing off 2s then 4s.
	if len(slept) != 4 {
		t.Fatalf("slept %d times, want 4: %v", len(slept), slept)
	}
	if slept[0] != 2*time.Second || slept[1] != 4*time.Second {
		t.Errorf("backoff = %v", slept)
	}
}

func TestFindVideoFallsBackToNextPlatform(t *testing.T) {
	src := &fakeSource{
		errs: map[discovery.Platform]error{
			discovery.PlatformTikTok: errors.New("down"),
		},
		results: map[discovery.Platform][]discovery.ScrapedMedia{
			discovery.PlatformYouTube: {{Platform: discovery.PlatformYouTube, Title: "fallback"}},
		},
	}
	// Hour 1: TikTok is primary, YouTube is the universal fallback.
	s := newTestScraper(src, 1, nil)

	video, err := s.FindVideo(context.Background(), "ai")
	if err != nil {
		t.Fatalf("FindVideo: %v", err)
	}
	if video == nil || video.Title != "fallback" {
		t.Fatalf("video = %+v", video)
	}
	if len(src.calls) != maxAttemptsPerPlatform+1 {
		t.Errorf("calls = %v", src.calls)
	}
	if src.calls[0] != discovery.PlatformTikTok || src.calls[len(src.calls)-1] != discovery.PlatformYouTube {
		t.Errorf("call order = %v", src.calls)
	}
}

func TestFindVideoEmptyResultsCountAsFailedAttempts(t *testing.T) {
	src := &fakeSource{}
	var slept []time.Duration
	s := newTestScraper(src, 0, &slept)

	video, err := s.FindVideo(context.Background(), "ai")
	if err != nil {
		t.Fatalf("FindVideo: %v", err)
	}
	if video != nil {
		t.Fatalf("video = %+v, want nil", video)
	}
	if len(src.calls) != 2*maxAttemptsPerPlatform {
		t.Errorf("made %d calls, want %d", len(src.calls), 2*maxAttemptsPerPlatform)
	}
}

func TestRetryDelayCap(t *testing.T) {
	if retryDelay(1) != 2*time.Second {
		t.Errorf("retryDelay(1) = %v", retryDelay(1))
	}
	if retryDelay(2) != 4*time.Second {
		t.Errorf("retryDelay(2) = %v", retryDelay(2))
	}
	if retryDelay(10) != maxRetryDelay {
		t.Errorf("retryDelay(10) = %v, want cap", retryDelay(10))
	}
}

func TestFindVideoStopsOnCancelledContext(t *testing.T) {
	src := &fakeSource{
		errs: map[discovery.Platform]error{
			discovery.PlatformYouTube: errors.New("down"),
			discovery.PlatformTikTok:  errors.New("down"),
		},
	}
	s := newTestScraper(src, 0, nil)
	calls := 0
	s.sleep = func(ctx context.Context, d time.Duration) error {
		calls++
		return context.Canceled
	}

	if _, err := s.FindVideo(context.Background(), "ai"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("sleep called %d times, want 1", calls)
	}
}
