// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Placeholder markers the model is instructed to leave in the draft so
// media can be spliced in afterwards.
const (
	PlaceholderImage = "[IMAGE_PLACEHOLDER]"
	PlaceholderVideo = "[VIDEO_PLACEHOLDER]"
)

// Length selects the requested article size.
type Length string

const (
	LengthShort    Length = "short"
	LengthMedium   Length = "medium"
	LengthLong     Length = "long"
	LengthExtended Length = "extended"
)

type lengthSpec struct {
	instruction string
	maxTokens   int
}

var lengthSpecs = map[Length]lengthSpec{
	LengthShort:    {"Write a concise blog post (400-600 words)", 1500},
	LengthMedium:   {"Write a comprehensive blog post (800-1200 words)", 3000},
	LengthLong:     {"Write an in-depth blog post (1400-1800 words)", 4500},
	LengthExtended: {"Write a detailed, comprehensive blog post (1600-2000 words)", 5500},
}

// BlogOptions controls blog post generation.
type BlogOptions struct {
	UseDeepThink bool
	Length       Length // defaults to LengthExtended
	// IncludeMediaPlaceholders asks the model to leave one image and one
	// video placeholder in the body.
	IncludeMediaPlaceholders bool
}

// BlogPost is a complete generated draft.
type BlogPost struct {
	Title   string
	Content string
	Excerpt string
	Tags    []string
	Model   string
}

const (
	maxExcerptLen = 160
	maxTags       = 6
)

var titleHeadingRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

const mediaPlaceholderInstructions = `
QUAN TRỌNG - Media Placeholders (1 ảnh + 1 video):
- Chèn CHÍNH XÁC 2 placeholders theo format sau:
- [IMAGE_PLACEHOLDER] - Đặt sau phần giới thiệu hoặc section 1 (sẽ được thay bằng ảnh minh họa)
- [VIDEO_PLACEHOLDER] - Đặt sau phần phân tích chính hoặc trước kết luận (sẽ được thay bằng video)
- HAI placeholders này PHẢI xuất hiện trong bài, KHÔNG đặt liên tiếp nhau
- Đặt mỗi placeholder trên 1 dòng riêng biệt`

// GenerateBlogPost produces a full Vietnamese blog post about topic.
// It makes three sequential model calls: the body, then a short excerpt,
// then tags. Any failed call aborts the whole draft; retry policy
// belongs to the caller.
func (c *Client) GenerateBlogPost(ctx context.Context, topic, contextInfo string, opts BlogOptions) (*BlogPost, error) {
	length := opts.Length
	if _, ok := lengthSpecs[length]; !ok {
		length = LengthExtended
	}
	spec := lengthSpecs[length]

	var b strings.Builder
	b.WriteString("You are an expert AI blogger writing about the AI industry and technology trends.\n\n")
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	if contextInfo != "" {
		fmt.Fprintf(&b, "\nContext và thông tin tham khảo:\n%s\n", contextInfo)
	}
	fmt.Fprintf(&b, "\n%s about this topic.\n\n", spec.instruction)
	b.WriteString(`REQUIREMENTS:
1. LANGUAGE: Write ENTIRELY in Vietnamese (tiếng Việt)
2. TONE: Engaging, professional, authoritative but accessible
3. STRUCTURE:
   - Strong opening hook (2-3 sentences)
   - 4-5 main sections với ## headings (súc tích, không lan man)
   - Each section: 200-350 words, đi thẳng vào trọng tâm
   - Include real examples, statistics khi cần
   - Brief conclusion với 2-3 takeaways
4. SEO:
   - Include keywords naturally
   - Use bullet points và numbered lists
   - Add bold cho key terms
5. FOCUS:
   - Explain concepts clearly và ngắn gọn
   - Ưu tiên chất lượng hơn số lượng
   - Mỗi paragraph phải có value rõ ràng`)
	if opts.IncludeMediaPlaceholders {
		b.WriteString(mediaPlaceholderInstructions)
	}
	b.WriteString(`

OUTPUT FORMAT: Valid Markdown with proper headings hierarchy.
DO NOT include the title as # heading - just start with the content.`)

	content, err := c.Generate(ctx, b.String(), GenerateOptions{
		UseDeepThink: opts.UseDeepThink,
		Temperature:  0.75,
		MaxTokens:    spec.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate body: %w", err)
	}

	// The model is told not to emit a title heading, but when it does
	// anyway the heading wins over the raw topic.
	title := topic
	body := content
	if m := titleHeadingRe.FindStringSubmatch(content); m != nil {
		title = strings.TrimSpace(m[1])
		body = strings.TrimSpace(titleHeadingRe.ReplaceAllString(content, ""))
	}

	head := firstChars(content, 800)

	excerptPrompt := "Tạo excerpt ngắn gọn (2 câu, tối đa 150 ký tự) cho bài viết này. Chỉ trả về excerpt, không có dấu ngoặc kép:\n\n" + head
	excerpt, err := c.Generate(ctx, excerptPrompt, GenerateOptions{Temperature: 0.5, MaxTokens: 100})
	if err != nil {
		return nil, fmt.Errorf("generate excerpt: %w", err)
	}

	tagsPrompt := "Trích xuất 4-6 tags liên quan (từ đơn hoặc cụm từ ngắn) cho bài viết này. Trả về danh sách phân cách bằng dấu phẩy, không có dấu ngoặc:\n\n" + head
	tagsResp, err := c.Generate(ctx, tagsPrompt, GenerateOptions{Temperature: 0.3, MaxTokens: 80})
	if err != nil {
		return nil, fmt.Errorf("generate tags: %w", err)
	}

	return &BlogPost{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(body),
		Excerpt: cleanExcerpt(excerpt),
		Tags:    parseTags(tagsResp),
		Model:   c.ModelName(opts.UseDeepThink),
	}, nil
}

// firstChars returns the first n runes of s.
func firstChars(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// cleanExcerpt trims surrounding whitespace and quotes and enforces the
// excerpt length cap.
func cleanExcerpt(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return firstChars(s, maxExcerptLen)
}

// parseTags splits a comma-separated model response into normalized
// tags. Single-character fragments and overlong phrases are dropped.
func parseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, maxTags)
	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(p))
		tag = strings.ReplaceAll(tag, `"`, "")
		tag = strings.ReplaceAll(tag, "'", "")
		n := len([]rune(tag))
		if n <= 1 || n >= 30 {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
