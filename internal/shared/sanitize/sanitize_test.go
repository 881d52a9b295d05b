package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRichTextStripsScripts(t *testing.T) {
	out := RichText(`<p>Hello <strong>world</strong></p><script>alert(1)</script>`)

	assert.Equal(t, `<p>Hello <strong>world</strong></p>`, out)
}

func TestRichTextRemovesEventHandlers(t *testing.T) {
	out := RichText(`<img src="https://example.com/a.png" onerror="alert(1)">`)

	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, `src="https://example.com/a.png"`)
}

func TestPlainTextStripsAllTags(t *testing.T) {
	assert.Equal(t, "Nice post", PlainText(" <b>Nice</b> post "))
}

func TestPlainTextKeepsPunctuationUnescaped(t *testing.T) {
	assert.Equal(t, `Tom & Jerry's "show"`, PlainText(`Tom & Jerry's "show"`))
	assert.Equal(t, "a < b", PlainText("a &lt; b"))
	assert.Equal(t, "", PlainText("<script>alert(1)</script>"))
}
