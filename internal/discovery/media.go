// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

import (
	"context"
	"fmt"
	"time"
)

// Platform identifies a media platform searched for embeddable videos.
type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformTikTok  Platform = "tiktok"
)

// ScrapedMedia is a single embeddable media item found on a platform.
type ScrapedMedia struct {
	Platform     Platform
	URL          string
	Title        string
	Author       string
	AuthorURL    string
	ThumbnailURL string
	Views        int
	Likes        int
	PublishedAt  string
}

const (
	youtubeTask = "streamers/youtube-scraper"
	tiktokTask  = "clockworks/tiktok-scraper"
)

// SearchVideos runs a platform video search. An empty result without an
// error means the platform genuinely had nothing for the query.
func (c *Client) SearchVideos(ctx context.Context, platform Platform, query string, maxResults int) ([]ScrapedMedia, error) {
	if maxResults <= 0 {
		maxResults = 5
	}
	switch platform {
	case PlatformYouTube:
		return c.searchYouTube(ctx, query, maxResults)
	case PlatformTikTok:
		return c.searchTikTok(ctx, query, maxResults)
	default:
		return nil, fmt.Errorf("unsupported media platform %q", platform)
	}
}

func (c *Client) searchYouTube(ctx context.Context, query string, maxResults int) ([]ScrapedMedia, error) {
	items, err := c.runTask(ctx, youtubeTask, map[string]any{
		"searchKeywords":   query,
		"maxResults":       maxResults,
		"maxResultsShorts": 0,
	})
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	media := make([]ScrapedMedia, 0, maxResults)
	for _, item := range items {
		if len(media) == maxResults {
			break
		}
		u := str(item, "url", "videoUrl")
		if u == "" {
			if id := str(item, "id", "videoId"); id != "" {
				u = "https://www.youtube.com/watch?v=" + id
			}
		}
		media = append(media, ScrapedMedia{
			Platform:     PlatformYouTube,
			URL:          u,
			Title:        str(item, "title", "text"),
			Author:       str(item, "channelName", "channelTitle", "author"),
			AuthorURL:    str(item, "channelUrl"),
			ThumbnailURL: str(item, "thumbnailUrl", "thumbnail"),
			Views:        num(item, "viewCount", "views"),
			Likes:        num(item, "likeCount", "likes"),
			PublishedAt:  str(item, "publishedAt", "uploadDate", "date"),
		})
	}
	return media, nil
}

func (c *Client) searchTikTok(ctx context.Context, query string, maxResults int) ([]ScrapedMedia, error) {
	items, err := c.runTask(ctx, tiktokTask, map[string]any{
		"searchQueries":        []string{query},
		"resultsPerPage":       maxResults,
		"shouldDownloadVideos": false,
		"shouldDownloadCovers": false,
	})
	if err != nil {
		return nil, fmt.Errorf("tiktok search: %w", err)
	}

	media := make([]ScrapedMedia, 0, maxResults)
	for _, item := range items {
		if len(media) == maxResults {
			break
		}
		author := str(item, "author")
		authorURL := ""
		if meta := nested(item, "authorMeta"); meta != nil {
			if name := str(meta, "name"); name != "" {
				author = name
			}
			authorURL = str(meta, "url")
			if authorURL == "" && author != "" {
				authorURL = "https://www.tiktok.com/@" + author
			}
		}

		u := str(item, "webVideoUrl")
		if u == "" && author != "" {
			if id := str(item, "id"); id != "" {
				u = fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", author, id)
			}
		}

		published := ""
		if ts := num(item, "createTime"); ts != 0 {
			published = time.Unix(int64(ts), 0).UTC().Format(time.RFC3339)
		}

		thumbnail := ""
		if covers := nested(item, "covers"); covers != nil {
			thumbnail = str(covers, "default")
		}
		if thumbnail == "" {
			if meta := nested(item, "videoMeta"); meta != nil {
				thumbnail = str(meta, "cover")
			}
		}

		media = append(media, ScrapedMedia{
			Platform:     PlatformTikTok,
			URL:          u,
			Title:        str(item, "text", "desc"),
			Author:       author,
			AuthorURL:    authorURL,
			ThumbnailURL: thumbnail,
			Views:        num(item, "playCount", "views"),
			Likes:        num(item, "diggCount", "likes"),
			PublishedAt:  published,
		})
	}
	return media, nil
}
