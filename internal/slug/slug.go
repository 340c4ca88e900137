// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates URL-safe slugs from post titles. Titles are
// frequently Vietnamese, so diacritics fold to ASCII before the usual
// cleanup.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnum       = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaces         = regexp.MustCompile(`\s+`)
	hyphenCollapse = regexp.MustCompile(`-+`)
)

// foldDiacritics decomposes accented letters and drops the combining
// marks. Đ/đ has no decomposition and is mapped by hand.
func foldDiacritics(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'đ':
			b.WriteRune('d')
		case 'Đ':
			b.WriteRune('D')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Generate converts a title to a URL slug: diacritics folded,
// lowercased, punctuation stripped, whitespace hyphenated.
func Generate(title string) string {
	s := strings.ToLower(foldDiacritics(title))
	s = nonAlnum.ReplaceAllString(s, "")
	s = spaces.ReplaceAllString(strings.TrimSpace(s), "-")
	s = hyphenCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
