// Package web renders timeline events into presentation-ready view models:
// markdown bodies to sanitized HTML and diff hunk windows to classed spans.
package web

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/prfeed/internal/diffhunk"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// RenderMarkdown converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// RenderHunkWindow converts a windowed hunk into HTML with line-level CSS
// classes and new-file line numbers. Each line is wrapped in a <span> with a
// class indicating its diff role:
//   - diff-add: added lines (prefix "+")
//   - diff-ctx: context lines
func RenderHunkWindow(lines []diffhunk.Line) string {
	if len(lines) == 0 {
		return ""
	}

	var buf strings.Builder

	for i, line := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}

		cssClass := "diff-ctx"
		if line.Kind == diffhunk.KindAddition {
			cssClass = "diff-add"
		}
		escaped := htmlSanitizer.Sanitize(line.Text)

		buf.WriteString(`<span class="`)
		buf.WriteString(cssClass)
		buf.WriteString(`" data-line="`)
		buf.WriteString(strconv.Itoa(line.FileLine))
		buf.WriteString(`">`)
		buf.WriteString(escaped)
		buf.WriteString(`</span>`)
	}

	return buf.String()
}
