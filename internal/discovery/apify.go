// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package discovery implements the Apify client used for content
// discovery and platform media search. Tasks run synchronously through
// the run-sync-get-dataset-items endpoint and results are projected
// into a uniform item shape per task kind.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"postforge/internal/provider"
)

const defaultBaseURL = "https://api.apify.com"

// Config holds the settings for the Apify client.
type Config struct {
	Token         string
	DefaultTaskID string // used by Discover when the caller passes none
	BaseURL       string
}

// Client is an Apify REST API client.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates an Apify client. A missing token is a ConfigError; the
// caller decides whether discovery is optional for the deployment.
func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, &provider.ConfigError{Reason: "APIFY_TOKEN is not set"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 180 * time.Second},
	}, nil
}

// runTask executes a task synchronously and returns its dataset items.
func (c *Client) runTask(ctx context.Context, taskID string, input map[string]any) ([]map[string]any, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("apify marshal: %w", err)
	}

	// Task IDs use "user/name"; the REST path wants "user~name".
	escaped := url.PathEscape(strings.ReplaceAll(taskID, "/", "~"))
	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.cfg.BaseURL, escaped, url.QueryEscape(c.cfg.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("apify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &provider.ProviderError{Provider: "apify", Err: fmt.Errorf("http: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &provider.ProviderError{Provider: "apify", Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &provider.ProviderError{
			Provider: "apify",
			Err:      fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &provider.ProviderError{Provider: "apify", Err: fmt.Errorf("unmarshal: %w", err)}
	}
	return items, nil
}

// DiscoverOptions controls a single discovery run.
type DiscoverOptions struct {
	TaskID     string         // overrides the configured default
	MaxResults int            // defaults to 10
	Input      map[string]any // raw task input, bypasses the kind's input builder
}

// DiscoverResult carries the projected items and the task that produced them.
type DiscoverResult struct {
	Items  []Item
	TaskID string
}

// Discover runs a discovery task for a query and projects the dataset
// into items. The task ID resolves from the options, then the client
// default; with neither set the error names example task IDs.
func (c *Client) Discover(ctx context.Context, query string, opts DiscoverOptions) (*DiscoverResult, error) {
	taskID := opts.TaskID
	if taskID == "" {
		taskID = c.cfg.DefaultTaskID
	}
	if taskID == "" {
		return nil, &provider.ConfigError{
			Reason: "Apify task ID not specified. Set APIFY_TASK_ID or pass a task ID. " +
				"Popular tasks: apify/google-search-scraper, apify/google-news-scraper, apify/reddit-scraper",
		}
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	kind := KindForTask(taskID)
	shape := taskShapes[kind]

	input := opts.Input
	if input == nil {
		input = shape.input(query, maxResults)
	}

	raw, err := c.runTask(ctx, taskID, input)
	if err != nil {
		return nil, fmt.Errorf("discover %q: %w", query, err)
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		items = append(items, shape.mapItem(r))
	}

	return &DiscoverResult{Items: items, TaskID: taskID}, nil
}
