package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce sync.Once
	rich     *bluemonday.Policy

	plainOnce sync.Once
	plain     *bluemonday.Policy
)

func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		rich = bluemonday.UGCPolicy()
		rich.RequireNoFollowOnLinks(true)
		rich.AddTargetBlankToFullyQualifiedLinks(true)
	})
	return rich
}

func plainPolicy() *bluemonday.Policy {
	plainOnce.Do(func() {
		plain = bluemonday.StrictPolicy()
	})
	return plain
}

// RichText keeps user-generated markup (headings, lists, links, images)
// and strips scripts, event handlers and other active content.
func RichText(input string) string {
	return strings.TrimSpace(richPolicy().Sanitize(input))
}

// PlainText strips every tag and returns unescaped text, so quotes and
// ampersands are stored as typed. The result is text, not HTML, and must
// be escaped wherever it is rendered.
func PlainText(input string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy().Sanitize(input)))
}
