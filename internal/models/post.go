// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the persisted domain types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Source records which pipeline produced a post.
type Source string

const (
	SourceGemini Source = "gemini"
	SourceApify  Source = "apify"
	SourceManual Source = "manual"
)

// ImageSource records where a post's cover image came from.
type ImageSource string

const (
	ImageSourceUnsplash ImageSource = "unsplash"
	ImageSourceApify    ImageSource = "apify"
	ImageSourceGemini   ImageSource = "gemini"
	ImageSourceManual   ImageSource = "manual"
)

// Post is a published or draft blog post.
type Post struct {
	ID            uuid.UUID    `json:"id"`
	Slug          string       `json:"slug"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Excerpt       string       `json:"excerpt"`
	Author        string       `json:"author"`
	Source        Source       `json:"source"`
	Tags          []string     `json:"tags"`
	ImageURL      *string      `json:"image_url,omitempty"`
	ImageSource   *ImageSource `json:"image_source,omitempty"`
	SourceURL     *string      `json:"source_url,omitempty"`      // discovery item the post drew on
	SourceTaskID  *string      `json:"source_task_id,omitempty"`  // discovery task that found it
	Model         *string      `json:"model,omitempty"`           // model that wrote the body
	Prompt        *string      `json:"prompt,omitempty"`          // topic prompt for regeneration
	DeepThinkUsed bool         `json:"deep_think_used"`
	Published     bool         `json:"published"`
	PublishedAt   *time.Time   `json:"published_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// CreatePostInput carries the fields for a new post. Empty optional
// strings persist as NULL.
type CreatePostInput struct {
	Title         string
	Content       string
	Excerpt       string
	Author        string
	Source        Source
	Tags          []string
	ImageURL      string
	ImageSource   ImageSource
	SourceURL     string
	SourceTaskID  string
	Model         string
	Prompt        string
	DeepThinkUsed bool
	Published     bool
}
