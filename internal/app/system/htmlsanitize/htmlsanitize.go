// Package htmlsanitize cleans user-supplied text before it is stored.
//
// Event descriptions may carry light formatting and go through Sanitize.
// Every other free-text field (names, locations, titles, preferences) goes
// through PlainText, which strips all markup.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are safe for concurrent use once built.
var (
	ugcOnce sync.Once
	ugc     *bluemonday.Policy
	strict  = bluemonday.StrictPolicy()
)

func ugcPolicy() *bluemonday.Policy {
	ugcOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.RequireNoFollowOnLinks(true)
		p.AllowURLSchemes("http", "https", "mailto")
		ugc = p
	})
	return ugc
}

// Sanitize keeps safe formatting (paragraphs, emphasis, lists, links) and
// removes scripts, event handlers and dangerous URLs.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(ugcPolicy().Sanitize(s))
}

// PlainText strips every tag and trims surrounding whitespace. Entities
// produced by the policy are unescaped so "Food & Drinks" stays readable.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no markup.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
