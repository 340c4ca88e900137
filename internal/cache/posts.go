// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// posts.go provides a Valkey-backed cache for serialized post API
// responses. Reads go through the cache; every successful generation
// invalidates it. Cache errors degrade to a miss, never to a request
// failure.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post responses.
	postKeyPrefix = "posts:"

	// DefaultPostTTL is how long a post response stays cached.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache manages cached post API responses in Valkey.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a post cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// ListKey returns the cache key for a post listing.
func ListKey(publishedOnly bool) string {
	if publishedOnly {
		return "list:published"
	}
	return "list:all"
}

// SlugKey returns the cache key for a single post.
func SlugKey(slug string) string {
	return "slug:" + slug
}

// Get retrieves a cached response. Returns false on miss or error.
func (pc *PostCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, postKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("post cache hit", "key", key)
	return val, true
}

// Set stores a serialized response with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, key string, body []byte) {
	if err := pc.client.Set(ctx, postKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached post response by scanning for the
// prefix. Called after each successful generation so new posts show up
// immediately.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("post cache cleared", "deleted", deleted)
	}
}
