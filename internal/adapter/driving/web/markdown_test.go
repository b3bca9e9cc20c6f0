package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prfeed/internal/diffhunk"
)

func TestRenderMarkdown_Basic(t *testing.T) {
	out := RenderMarkdown("**bold** and `code`")

	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<code>code</code>")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown(""))
}

func TestRenderMarkdown_SanitizesScript(t *testing.T) {
	out := RenderMarkdown("hello <script>alert(1)</script>")

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
}

func TestRenderHunkWindow_ClassesAndLineNumbers(t *testing.T) {
	lines := []diffhunk.Line{
		{FileLine: 5, Kind: diffhunk.KindContext, Text: " context1"},
		{FileLine: 6, Kind: diffhunk.KindAddition, Text: "+added1"},
	}

	out := RenderHunkWindow(lines)

	require.Contains(t, out, `class="diff-ctx" data-line="5"`)
	require.Contains(t, out, `class="diff-add" data-line="6"`)
	assert.Contains(t, out, "context1")
	assert.Contains(t, out, "added1")
}

func TestRenderHunkWindow_Empty(t *testing.T) {
	assert.Equal(t, "", RenderHunkWindow(nil))
}
