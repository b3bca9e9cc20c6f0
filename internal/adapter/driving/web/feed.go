package web

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/prfeed/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/prfeed/internal/diffhunk"
	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

// BuildFeed renders an aggregated timeline into presentation-ready view
// models. Markdown bodies become sanitized HTML; inline comments carry their
// windowed diff hunks. A hunk that fails to parse is passed through raw for
// that comment only; the rest of the feed renders normally.
func BuildFeed(events []model.TimelineEvent) viewmodel.Feed {
	items := make([]viewmodel.FeedItem, 0, len(events))
	for _, event := range events {
		items = append(items, buildFeedItem(event))
	}

	return viewmodel.Feed{
		Items: items,
		Empty: len(items) == 0,
	}
}

func buildFeedItem(event model.TimelineEvent) viewmodel.FeedItem {
	switch e := event.(type) {
	case model.Review:
		comments := make([]viewmodel.InlineComment, 0, len(e.AssociatedComments))
		for _, c := range e.AssociatedComments {
			comments = append(comments, buildInlineComment(c))
		}
		return viewmodel.FeedItem{
			Kind:      string(e.Kind()),
			Author:    e.AuthorLogin,
			AvatarURL: e.AuthorAvatarURL,
			Timestamp: formatTime(e.SubmittedAt),
			URL:       e.URL,
			State:     string(e.State),
			BodyHTML:  RenderMarkdown(e.Body),
			Comments:  comments,
		}
	case model.ReviewComment:
		inline := buildInlineComment(e)
		return viewmodel.FeedItem{
			Kind:      string(e.Kind()),
			Author:    e.AuthorLogin,
			Timestamp: formatTime(e.CreatedAt),
			URL:       e.URL,
			Inline:    &inline,
		}
	case model.IssueComment:
		return viewmodel.FeedItem{
			Kind:      string(e.Kind()),
			Author:    e.AuthorLogin,
			Timestamp: formatTime(e.CreatedAt),
			URL:       e.URL,
			BodyHTML:  RenderMarkdown(e.Body),
		}
	case model.Commit:
		author := e.AuthorLogin
		if author == "" {
			author = e.AuthorName
		}
		return viewmodel.FeedItem{
			Kind:      string(e.Kind()),
			Author:    author,
			AvatarURL: e.AuthorAvatarURL,
			Timestamp: formatTime(e.AuthoredAt),
			URL:       e.URL,
			SHA:       e.SHA,
			Message:   e.Message,
		}
	default:
		return viewmodel.FeedItem{
			Kind:      string(event.Kind()),
			Timestamp: formatTime(event.EventTime()),
		}
	}
}

// buildInlineComment renders one review comment with its hunk window.
func buildInlineComment(c model.ReviewComment) viewmodel.InlineComment {
	inline := viewmodel.InlineComment{
		Author:    c.AuthorLogin,
		Timestamp: formatTime(c.CreatedAt),
		Path:      c.Path,
		Anchor:    anchorLabel(c.StartLine, c.Line),
		BodyHTML:  RenderMarkdown(c.Body),
		URL:       c.URL,
	}

	if c.DiffHunk == "" {
		return inline
	}

	window, err := diffhunk.Window(c.DiffHunk, c.StartLine, c.Line)
	if err != nil {
		slog.Warn("diff hunk parse failed, passing raw text through",
			"comment_id", c.ID,
			"path", c.Path,
			"error", err,
		)
		inline.RawHunk = c.DiffHunk
		return inline
	}

	// An empty window (anchor outside hunk coverage) omits the hunk block
	// entirely rather than rendering an empty container.
	if len(window) == 0 {
		return inline
	}

	hunkLines := make([]viewmodel.HunkLine, 0, len(window))
	for _, line := range window {
		hunkLines = append(hunkLines, viewmodel.HunkLine{
			Number: line.FileLine,
			Kind:   string(line.Kind),
			Text:   line.Text,
		})
	}
	inline.HunkLines = hunkLines
	inline.HunkHTML = RenderHunkWindow(window)

	return inline
}

// anchorLabel formats a comment's line range for display.
func anchorLabel(startLine, line int) string {
	if line == 0 {
		return ""
	}
	if startLine == 0 || startLine == line {
		return fmt.Sprintf("line %d", line)
	}
	return fmt.Sprintf("lines %d to %d", startLine, line)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
