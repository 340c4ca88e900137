// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package images

import (
	"strings"
	"unicode"
)

// techKeywords mark a topic as technology-related. Unsplash returns
// irrelevant stock photos for tech topics unless the query carries an
// explicit technology term.
var techKeywords = []string{
	"ai", "artificial", "intelligence", "robot", "robotics", "automation",
	"machine", "learning", "neural", "deep", "computer", "vision",
	"software", "code", "programming", "algorithm", "data", "tech",
	"technology", "digital", "cloud", "api", "llm", "gpt", "chatgpt",
	"nlp", "ml", "testing", "devops", "blockchain", "crypto", "iot",
	"cybersecurity", "security", "network", "server", "database",
}

// fillerWords are dropped from search queries. Topics arrive in English
// and Vietnamese, so both stopword sets are here.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true,
	"of": true, "with": true, "by": true, "from": true, "is": true,
	"are": true, "was": true, "were": true, "be": true, "been": true,
	"being": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true,
	"must": true, "shall": true, "can": true, "need": true,
	"về": true, "và": true, "hoặc": true, "nhưng": true, "trong": true,
	"trên": true, "tại": true, "để": true, "cho": true,
	"của": true, "với": true, "bởi": true, "từ": true, "là": true,
	"được": true, "có": true, "sẽ": true, "đã": true, "đang": true,
	"how": true, "what": true, "when": true, "where": true, "why": true,
	"which": true, "who": true, "whom": true,
	"this": true, "that": true, "these": true, "those": true, "it": true,
	"its": true, "their": true, "your": true, "our": true,
	"trends": true, "2024": true, "2025": true, "best": true, "top": true,
	"new": true, "latest": true, "guide": true,
}

// isTechTopic reports whether the lowercased topic mentions a tech term.
func isTechTopic(topicLower string) bool {
	for _, k := range techKeywords {
		if strings.Contains(topicLower, k) {
			return true
		}
	}
	return false
}

// cleanWords lowercases s, replaces punctuation with spaces, and splits.
func cleanWords(s string) []string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Fields(mapped)
}

// extractKeywords turns a blog topic into an Unsplash search query: the
// first three meaningful words, with a technology suffix appended for
// tech topics.
func extractKeywords(topic string) string {
	topicLower := strings.ToLower(topic)

	meaningful := make([]string, 0, 3)
	for _, word := range cleanWords(topic) {
		if len([]rune(word)) <= 2 || fillerWords[word] {
			continue
		}
		meaningful = append(meaningful, word)
		if len(meaningful) == 3 {
			break
		}
	}

	keywords := strings.Join(meaningful, " ")
	if keywords == "" {
		keywords = strings.Join(cleanWords(topic), " ")
	}

	if isTechTopic(topicLower) {
		keywords += " technology computer"
	}

	return keywords
}
