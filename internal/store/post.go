// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists posts to PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"postforge/internal/models"
	"postforge/internal/slug"
)

const uniqueViolation = "23505"

// PostStore provides access to the posts table.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a PostStore backed by the given database.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, slug, title, content, excerpt, author, source, tags,
	image_url, image_source, source_url, source_task_id, model, prompt,
	deep_think_used, published, published_at, created_at, updated_at`

// Create inserts a post. The slug derives from the title; on collision
// a short random suffix is appended and the insert retried once.
func (s *PostStore) Create(ctx context.Context, in *models.CreatePostInput) (*models.Post, error) {
	base := slug.Generate(in.Title)
	if base == "" {
		base = "post"
	}

	post, err := s.insert(ctx, in, base)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		suffixed := fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
		post, err = s.insert(ctx, in, suffixed)
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *PostStore) insert(ctx context.Context, in *models.CreatePostInput, slugValue string) (*models.Post, error) {
	tags, err := json.Marshal(tagsOrEmpty(in.Tags))
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}

	var publishedAt *time.Time
	if in.Published {
		now := time.Now().UTC()
		publishedAt = &now
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (
			slug, title, content, excerpt, author, source, tags,
			image_url, image_source, source_url, source_task_id,
			model, prompt, deep_think_used, published, published_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+postColumns,
		slugValue, in.Title, in.Content, in.Excerpt, in.Author, in.Source, tags,
		nullable(in.ImageURL), nullable(string(in.ImageSource)),
		nullable(in.SourceURL), nullable(in.SourceTaskID),
		nullable(in.Model), nullable(in.Prompt),
		in.DeepThinkUsed, in.Published, publishedAt,
	)
	return scanPost(row)
}

// FindBySlug returns the post with the given slug, or nil when absent.
func (s *PostStore) FindBySlug(ctx context.Context, slugValue string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1`, slugValue)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return post, nil
}

// List returns posts newest first, optionally only published ones.
func (s *PostStore) List(ctx context.Context, publishedOnly bool) ([]models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

// Count returns the total number of posts.
func (s *PostStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// DeleteOlderThan removes generated posts created before cutoff while
// always keeping the keepNewest most recent posts overall. Manual posts
// are never touched.
func (s *PostStore) DeleteOlderThan(ctx context.Context, cutoff time.Time, keepNewest int) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM posts
		WHERE source <> $1
		  AND created_at < $2
		  AND id NOT IN (
			SELECT id FROM posts ORDER BY created_at DESC LIMIT $3
		  )`,
		models.SourceManual, cutoff, keepNewest,
	)
	if err != nil {
		return 0, fmt.Errorf("delete old posts: %w", err)
	}
	return result.RowsAffected()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*models.Post, error) {
	var (
		post        models.Post
		tags        []byte
		imageURL    sql.NullString
		imageSource sql.NullString
		sourceURL   sql.NullString
		taskID      sql.NullString
		model       sql.NullString
		prompt      sql.NullString
		publishedAt sql.NullTime
	)

	err := row.Scan(
		&post.ID, &post.Slug, &post.Title, &post.Content, &post.Excerpt,
		&post.Author, &post.Source, &tags,
		&imageURL, &imageSource, &sourceURL, &taskID, &model, &prompt,
		&post.DeepThinkUsed, &post.Published, &publishedAt,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &post.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}
	post.ImageURL = stringPtr(imageURL)
	if imageSource.Valid {
		v := models.ImageSource(imageSource.String)
		post.ImageSource = &v
	}
	post.SourceURL = stringPtr(sourceURL)
	post.SourceTaskID = stringPtr(taskID)
	post.Model = stringPtr(model)
	post.Prompt = stringPtr(prompt)
	if publishedAt.Valid {
		t := publishedAt.Time
		post.PublishedAt = &t
	}
	return &post, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
