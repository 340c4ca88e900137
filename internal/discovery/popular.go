// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// popularQueries target trending AI industry coverage.
var popularQueries = []string{
	"AI artificial intelligence trends 2025",
	"machine learning applications",
	"generative AI use cases",
	"AI automation business",
	"artificial intelligence news",
}

// PopularOptions controls FindPopularPosts.
type PopularOptions struct {
	MaxResults int // defaults to 20
}

// FindPopularPosts runs the canned discovery queries and merges the
// results: duplicates collapse by URL (first occurrence wins) and the
// merged list sorts by engagement, then recency. A query that fails is
// logged and skipped; only an empty overall result is possible, never a
// partial error.
func (c *Client) FindPopularPosts(ctx context.Context, opts PopularOptions) ([]Item, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}
	perQuery := (maxResults + len(popularQueries) - 1) / len(popularQueries)

	var all []Item
	for _, query := range popularQueries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := c.Discover(ctx, query, DiscoverOptions{MaxResults: perQuery})
		if err != nil {
			slog.Warn("popular posts query failed", "query", query, "error", err)
			continue
		}
		all = append(all, result.Items...)
	}

	seen := make(map[string]bool, len(all))
	unique := all[:0]
	for _, item := range all {
		if item.URL == "" || seen[item.URL] {
			continue
		}
		seen[item.URL] = true
		unique = append(unique, item)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Engagement != unique[j].Engagement {
			return unique[i].Engagement > unique[j].Engagement
		}
		return parsePublished(unique[i].PublishedAt).After(parsePublished(unique[j].PublishedAt))
	})

	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	return unique, nil
}

// parsePublished parses the date formats discovery tasks emit. Unknown
// formats sort last.
func parsePublished(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
