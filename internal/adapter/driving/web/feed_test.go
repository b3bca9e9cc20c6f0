package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

func TestBuildFeed_Empty(t *testing.T) {
	feed := BuildFeed(nil)

	assert.True(t, feed.Empty)
	assert.NotNil(t, feed.Items)
	assert.Empty(t, feed.Items)
}

func TestBuildFeed_ReviewWithNestedComments(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	feed := BuildFeed([]model.TimelineEvent{
		model.Review{
			ID:          10,
			AuthorLogin: "alice",
			State:       model.ReviewStateChangesRequested,
			Body:        "please **fix**",
			SubmittedAt: ts,
			AssociatedComments: []model.ReviewComment{
				{
					ID:          1,
					AuthorLogin: "alice",
					Path:        "main.go",
					Line:        7,
					DiffHunk:    "@@ -5,3 +5,4 @@\n context1\n+added1\n+added2\n context2",
					Body:        "rename",
					CreatedAt:   ts,
				},
			},
		},
	})

	require.Len(t, feed.Items, 1)
	item := feed.Items[0]
	assert.Equal(t, "review", item.Kind)
	assert.Equal(t, "changes_requested", item.State)
	assert.Contains(t, item.BodyHTML, "<strong>fix</strong>")

	require.Len(t, item.Comments, 1)
	comment := item.Comments[0]
	assert.Equal(t, "line 7", comment.Anchor)
	assert.Equal(t, "main.go", comment.Path)

	// Anchor 7 with leading context pulls in file lines 5, 6, 7.
	require.Len(t, comment.HunkLines, 3)
	assert.Equal(t, 5, comment.HunkLines[0].Number)
	assert.Equal(t, 6, comment.HunkLines[1].Number)
	assert.Equal(t, 7, comment.HunkLines[2].Number)
	assert.Contains(t, comment.HunkHTML, `data-line="7"`)
	assert.Empty(t, comment.RawHunk)
}

func TestBuildFeed_RangeAnchorLabel(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	feed := BuildFeed([]model.TimelineEvent{
		model.ReviewComment{
			ID:          1,
			AuthorLogin: "bob",
			Path:        "main.go",
			StartLine:   40,
			Line:        45,
			CreatedAt:   ts,
		},
	})

	require.Len(t, feed.Items, 1)
	require.NotNil(t, feed.Items[0].Inline)
	assert.Equal(t, "lines 40 to 45", feed.Items[0].Inline.Anchor)
}

func TestBuildFeed_MalformedHunkFallsBackToRaw(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	feed := BuildFeed([]model.TimelineEvent{
		model.ReviewComment{
			ID:        1,
			Line:      7,
			DiffHunk:  "garbage without a header",
			CreatedAt: ts,
		},
	})

	require.Len(t, feed.Items, 1)
	inline := feed.Items[0].Inline
	require.NotNil(t, inline)
	assert.Equal(t, "garbage without a header", inline.RawHunk)
	assert.Empty(t, inline.HunkLines)
	assert.Empty(t, inline.HunkHTML)
}

func TestBuildFeed_AnchorOutsideHunkOmitsBlock(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	feed := BuildFeed([]model.TimelineEvent{
		model.ReviewComment{
			ID:        1,
			Line:      500,
			DiffHunk:  "@@ -5,2 +5,2 @@\n one\n two",
			CreatedAt: ts,
		},
	})

	require.Len(t, feed.Items, 1)
	inline := feed.Items[0].Inline
	require.NotNil(t, inline)
	assert.Empty(t, inline.HunkLines)
	assert.Empty(t, inline.HunkHTML)
	assert.Empty(t, inline.RawHunk)
}

func TestBuildFeed_CommitFallsBackToAuthorName(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	feed := BuildFeed([]model.TimelineEvent{
		model.Commit{SHA: "abc", AuthorName: "Dave Dev", Message: "fix", AuthoredAt: ts},
	})

	require.Len(t, feed.Items, 1)
	assert.Equal(t, "commit", feed.Items[0].Kind)
	assert.Equal(t, "Dave Dev", feed.Items[0].Author)
	assert.Equal(t, "abc", feed.Items[0].SHA)
}
