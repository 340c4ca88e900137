// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package embeds renders media items into self-contained HTML fragments
// for post bodies. Every function is pure; an unrecognized URL renders
// as an empty string with a warning, never as an error.
package embeds

import (
	"fmt"
	"html"
	"log/slog"
	"regexp"

	"postforge/internal/discovery"
)

// YouTube video IDs are exactly 11 URL-safe characters.
var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

var tiktokPattern = regexp.MustCompile(`tiktok\.com/@([^/]+)/video/(\d+)`)

// extractYouTubeID pulls the video ID out of any supported URL form.
func extractYouTubeID(url string) string {
	for _, p := range youtubeIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// extractTikTokID pulls the username and video ID out of a TikTok URL.
func extractTikTokID(url string) (username, videoID string) {
	if m := tiktokPattern.FindStringSubmatch(url); m != nil {
		return m[1], m[2]
	}
	return "", ""
}

// YouTube renders a responsive privacy-enhanced YouTube iframe.
func YouTube(url, title string) string {
	videoID := extractYouTubeID(url)
	if videoID == "" {
		slog.Warn("invalid YouTube URL", "url", url)
		return ""
	}
	if title == "" {
		title = "YouTube video"
	}

	return fmt.Sprintf(`<div class="video-embed youtube-embed" style="position:relative;padding-bottom:56.25%%;height:0;overflow:hidden;max-width:100%%;margin:2rem 0;">
  <iframe
    src="https://www.youtube-nocookie.com/embed/%s"
    title="%s"
    style="position:absolute;top:0;left:0;width:100%%;height:100%%;border:0;"
    allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"
    allowfullscreen
    loading="lazy"
  ></iframe>
</div>`, videoID, html.EscapeString(title))
}

// TikTok renders a TikTok iframe embed. The iframe variant survives
// server-side rendering where the widget script does not.
func TikTok(url, author string) string {
	username, videoID := extractTikTokID(url)
	if videoID == "" {
		slog.Warn("invalid TikTok URL", "url", url)
		return ""
	}
	if author == "" {
		author = username
	}

	// Fixed 700px height matches the embed v2 player plus its UI.
	return fmt.Sprintf(`<div class="video-embed tiktok-embed" style="max-width:325px;margin:2rem auto;">
  <iframe
    src="https://www.tiktok.com/embed/v2/%s"
    title="TikTok video by @%s"
    style="width:100%%;height:700px;border:0;"
    allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"
    allowfullscreen
    loading="lazy"
  ></iframe>
</div>`, videoID, html.EscapeString(author))
}

// Image renders a figure with an optional caption.
func Image(imageURL, alt, caption string) string {
	figcaption := ""
	if caption != "" {
		figcaption = fmt.Sprintf(`
  <figcaption style="margin-top:0.5rem;font-size:0.9rem;color:#666;">%s</figcaption>`, html.EscapeString(caption))
	}

	return fmt.Sprintf(`<figure style="margin:2rem 0;text-align:center;">
  <img
    src="%s"
    alt="%s"
    style="max-width:100%%;height:auto;border-radius:8px;"
    loading="lazy"
  />%s
</figure>`, imageURL, html.EscapeString(alt), figcaption)
}

// MediaPlaceholder renders the "coming soon" block used when no video
// could be found for a topic.
func MediaPlaceholder(topic string) string {
	return fmt.Sprintf(`<div class="media-placeholder" style="margin:2rem 0;padding:2rem;background:#f5f5f5;border-radius:8px;text-align:center;">
  <p style="color:#666;margin:0;">📹 Nội dung video về "%s" sẽ được cập nhật sớm.</p>
</div>`, html.EscapeString(topic))
}

// Media renders a scraped media item with the renderer for its platform.
func Media(m discovery.ScrapedMedia) string {
	switch m.Platform {
	case discovery.PlatformYouTube:
		return YouTube(m.URL, m.Title)
	case discovery.PlatformTikTok:
		return TikTok(m.URL, m.Author)
	default:
		slog.Warn("unknown embed platform", "platform", m.Platform)
		return ""
	}
}
