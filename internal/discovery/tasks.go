// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package discovery

// TaskKind identifies the input and output shape of a discovery task.
// Every supported task ID maps to exactly one kind; unknown IDs run
// with the generic shape.
type TaskKind int

const (
	TaskGeneric TaskKind = iota
	TaskWebSearch
	TaskNews
	TaskTwitter
	TaskLinkedIn
	TaskReddit
)

// taskKinds is the closed registry of known task IDs.
var taskKinds = map[string]TaskKind{
	"apify/google-search-scraper":  TaskWebSearch,
	"apify/google-news-scraper":    TaskNews,
	"apify/twitter-scraper":        TaskTwitter,
	"apify/linkedin-posts-scraper": TaskLinkedIn,
	"apify/reddit-scraper":         TaskReddit,
	"epctex/reddit-scraper":        TaskReddit,
}

// KindForTask resolves a task ID to its kind.
func KindForTask(taskID string) TaskKind {
	if kind, ok := taskKinds[taskID]; ok {
		return kind
	}
	return TaskGeneric
}

// Item is a discovered content item in the uniform projection.
type Item struct {
	Title       string
	Content     string
	URL         string
	Author      string
	ImageURL    string
	PublishedAt string
	Platform    string
	Engagement  int
}

// taskShape pairs the input builder and the item mapper for a kind.
type taskShape struct {
	input   func(query string, maxResults int) map[string]any
	mapItem func(item map[string]any) Item
}

var taskShapes = map[TaskKind]taskShape{
	TaskWebSearch: {
		input: func(query string, maxResults int) map[string]any {
			return map[string]any{
				"queries":          query, // newline-separated string, not an array
				"maxPagesPerQuery": 1,
				"resultsPerPage":   maxResults,
				"countryCode":      "vn",
				"languageCode":     "vi",
				"mobileResults":    false,
			}
		},
		mapItem: func(item map[string]any) Item {
			return Item{
				Title:       str(item, "title", "name"),
				Content:     str(item, "description", "snippet"),
				URL:         str(item, "url", "link"),
				Author:      str(item, "author", "source"),
				ImageURL:    str(item, "image", "thumbnail"),
				PublishedAt: str(item, "publishedAt", "date"),
				Platform:    "website",
			}
		},
	},
	TaskNews: {
		input: func(query string, maxResults int) map[string]any {
			return map[string]any{
				"query":    query,
				"maxItems": maxResults,
				"country":  "VN",
				"language": "vi",
			}
		},
		mapItem: func(item map[string]any) Item {
			it := genericItem(item)
			it.Platform = "website"
			return it
		},
	},
	TaskTwitter: {
		input: func(query string, maxResults int) map[string]any {
			return map[string]any{
				"searchTerms": []string{query},
				"maxTweets":   maxResults,
				"addUserInfo": true,
			}
		},
		mapItem: func(item map[string]any) Item {
			it := genericItem(item)
			it.Platform = "twitter"
			return it
		},
	},
	TaskLinkedIn: {
		input: func(query string, maxResults int) map[string]any {
			return map[string]any{
				"search":     query,
				"maxResults": maxResults,
			}
		},
		mapItem: func(item map[string]any) Item {
			it := genericItem(item)
			it.Platform = "linkedin"
			return it
		},
	},
	TaskReddit: {
		input: func(query string, maxResults int) map[string]any {
			return map[string]any{
				"searchKeywords": query,
				"maxItems":       maxResults,
			}
		},
		mapItem: func(item map[string]any) Item {
			it := genericItem(item)
			it.Platform = "reddit"
			it.Engagement = num(item, "score", "upvotes", "ups")
			return it
		},
	},
	TaskGeneric: {
		input: func(query string, maxResults int) map[string]any {
			return map[string]any{
				"query":      query,
				"maxResults": maxResults,
			}
		},
		mapItem: genericItem,
	},
}

// genericItem coalesces the field variants seen across task outputs.
func genericItem(item map[string]any) Item {
	return Item{
		Title:       str(item, "title", "text", "tweetText", "postText", "name"),
		Content:     str(item, "content", "text", "description", "tweetText", "postText", "snippet"),
		URL:         str(item, "url", "link", "tweetUrl", "postUrl"),
		Author:      str(item, "author", "username", "userName", "creator", "source"),
		ImageURL:    str(item, "imageUrl", "image", "thumbnail", "mediaUrl"),
		PublishedAt: str(item, "publishedAt", "date", "createdAt", "timestamp"),
		Platform:    str(item, "platform"),
	}
}

// str returns the first non-empty string value among keys.
func str(item map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// num returns the first non-zero numeric value among keys. JSON numbers
// decode as float64.
func num(item map[string]any, keys ...string) int {
	for _, k := range keys {
		if f, ok := item[k].(float64); ok && f != 0 {
			return int(f)
		}
	}
	return 0
}

// nested returns a child object, or nil when absent.
func nested(item map[string]any, key string) map[string]any {
	m, _ := item[key].(map[string]any)
	return m
}
