// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package images fetches stock photos from Unsplash for post covers and
// inline use. The contract is total: FetchImages always returns exactly
// the requested number of slots, padding with the placeholder URL when
// the provider is unconfigured, errors, or comes up short.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// PlaceholderURL fills image slots that Unsplash could not.
const PlaceholderURL = "/blog/images/placeholder.jpg"

const defaultBaseURL = "https://api.unsplash.com"

// Attribution credits the photographer, required by Unsplash guidelines.
type Attribution struct {
	Photographer    string
	PhotographerURL string
	SourceURL       string
}

// Image is one resolved image slot.
type Image struct {
	URL         string
	Attribution *Attribution
}

// Config holds the settings for the Unsplash client.
type Config struct {
	AccessKey string // empty means every slot gets the placeholder
	BaseURL   string
}

// Client is an Unsplash search client with a background download
// tracker.
type Client struct {
	cfg    Config
	client *http.Client

	track  chan string
	wg     sync.WaitGroup
	closed sync.Once
}

// New creates the client. An empty access key is allowed; the client
// then serves placeholders only.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	c := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		track:  make(chan string, 32),
	}
	c.wg.Add(1)
	go c.trackWorker()
	return c
}

// Configured reports whether an access key is present.
func (c *Client) Configured() bool {
	return c.cfg.AccessKey != ""
}

// Close drains the download tracking queue and stops the worker.
func (c *Client) Close() {
	c.closed.Do(func() {
		close(c.track)
	})
	c.wg.Wait()
}

// trackWorker pings download endpoints as Unsplash guidelines require.
// Failures only get a log line; tracking never affects a post.
func (c *Client) trackWorker() {
	defer c.wg.Done()
	for endpoint := range c.track {
		req, err := http.NewRequest(http.MethodGet, endpoint, nil)
		if err != nil {
			slog.Warn("download tracking request", "error", err)
			continue
		}
		req.Header.Set("Authorization", "Client-ID "+c.cfg.AccessKey)
		resp, err := c.client.Do(req)
		if err != nil {
			slog.Warn("download tracking failed", "endpoint", endpoint, "error", err)
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}

// enqueueTracking queues a download ping without ever blocking.
func (c *Client) enqueueTracking(endpoint string) {
	if endpoint == "" {
		return
	}
	select {
	case c.track <- endpoint:
	default:
		slog.Warn("download tracking queue full, dropping", "endpoint", endpoint)
	}
}

type unsplashPhoto struct {
	ID   string `json:"id"`
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name  string `json:"name"`
		Links struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
	Links struct {
		DownloadLocation string `json:"download_location"`
	} `json:"links"`
}

type unsplashSearchResponse struct {
	Total   int             `json:"total"`
	Results []unsplashPhoto `json:"results"`
}

// FetchImages returns exactly count images for the topic. Real photos
// come first; any remaining slots hold the placeholder.
func (c *Client) FetchImages(ctx context.Context, topic string, count int) []Image {
	if count <= 0 {
		return nil
	}
	if !c.Configured() {
		slog.Info("unsplash not configured, using placeholders")
		return placeholders(count)
	}

	images := c.search(ctx, extractKeywords(topic), topic, count, false)
	for len(images) < count {
		images = append(images, Image{URL: PlaceholderURL})
	}
	return images
}

// search runs one query. On zero results it retries once with a broader
// fallback query; on any failure it returns what it has and lets the
// caller pad.
func (c *Client) search(ctx context.Context, query, topic string, count int, retried bool) []Image {
	// Over-fetch a little for variety, the API caps per_page at 10.
	perPage := count + 3
	if perPage > 10 {
		perPage = 10
	}

	params := url.Values{
		"query":          {query},
		"orientation":    {"landscape"},
		"per_page":       {strconv.Itoa(perPage)},
		"content_filter": {"high"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/search/photos?%s", c.cfg.BaseURL, params.Encode()), nil)
	if err != nil {
		slog.Warn("unsplash request", "error", err)
		return nil
	}
	req.Header.Set("Authorization", "Client-ID "+c.cfg.AccessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Warn("unsplash http", "error", err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("unsplash read body", "error", err)
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("unsplash API error", "status", resp.StatusCode, "body", string(body))
		return nil
	}

	var data unsplashSearchResponse
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Warn("unsplash unmarshal", "error", err)
		return nil
	}

	if len(data.Results) == 0 && !retried {
		fallback := "technology innovation"
		if strings.Contains(strings.ToLower(topic), "ai") {
			fallback = "artificial intelligence technology"
		}
		slog.Info("no unsplash results, retrying with fallback", "query", query, "fallback", fallback)
		return c.search(ctx, fallback, topic, count, true)
	}

	images := make([]Image, 0, count)
	for _, photo := range data.Results {
		if len(images) == count {
			break
		}
		c.enqueueTracking(photo.Links.DownloadLocation)
		images = append(images, Image{
			URL: photo.URLs.Regular,
			Attribution: &Attribution{
				Photographer:    photo.User.Name,
				PhotographerURL: photo.User.Links.HTML,
				SourceURL:       "https://unsplash.com/photos/" + photo.ID,
			},
		})
	}
	return images
}

func placeholders(count int) []Image {
	images := make([]Image, count)
	for i := range images {
		images[i] = Image{URL: PlaceholderURL}
	}
	return images
}
