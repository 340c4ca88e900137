// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ai implements the Gemini model client used for all text
// generation. It talks to the REST generateContent endpoint directly
// with a standard fast model and an optional deep-think model for
// complex topics.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"postforge/internal/provider"
)

const (
	// ModelFast is the default model, best price-performance.
	ModelFast = "gemini-2.5-flash"
	// ModelDeep is the deep-think model used for complex topics.
	ModelDeep = "gemini-2.5-pro"

	defaultBaseURL = "https://generativelanguage.googleapis.com"

	defaultTemperature = 0.7
	defaultMaxTokens   = 8192
)

// Config holds the settings for the Gemini client.
type Config struct {
	APIKey    string
	BaseURL   string // defaults to the public Gemini endpoint
	Model     string // fast model, defaults to ModelFast
	DeepModel string // deep-think model, defaults to ModelDeep
}

// Client is a Gemini REST API client.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates a Gemini client. It fails with a ConfigError when the
// API key is missing so a misconfigured deployment is caught at startup.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, &provider.ConfigError{Reason: "GEMINI_API_KEY is not set"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = ModelFast
	}
	if cfg.DeepModel == "" {
		cfg.DeepModel = ModelDeep
	}

	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// GenerateOptions controls a single model call. A zero Temperature or
// MaxTokens falls back to the defaults.
type GenerateOptions struct {
	UseDeepThink bool
	Temperature  float64
	MaxTokens    int
}

// ModelName returns the model identifier used for the given mode.
func (c *Client) ModelName(deepThink bool) string {
	if deepThink {
		return c.cfg.DeepModel
	}
	return c.cfg.Model
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends a single prompt to the model and returns the generated
// text. Transport and API failures come back as ProviderError.
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("gemini marshal: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.ModelName(opts.UseDeepThink))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &provider.ProviderError{Provider: "gemini", Err: fmt.Errorf("http: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &provider.ProviderError{Provider: "gemini", Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &provider.ProviderError{
			Provider: "gemini",
			Err:      fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &provider.ProviderError{Provider: "gemini", Err: fmt.Errorf("unmarshal: %w", err)}
	}

	if len(out.Candidates) == 0 {
		return "", &provider.ProviderError{Provider: "gemini", Err: errors.New("no candidates returned")}
	}
	parts := out.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", &provider.ProviderError{Provider: "gemini", Err: errors.New("no text in response")}
	}

	return parts[0].Text, nil
}
