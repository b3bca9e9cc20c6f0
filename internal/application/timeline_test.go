package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

func TestIndexCommentsByReview(t *testing.T) {
	now := time.Now()

	comments := []model.ReviewComment{
		{ID: 1, ReviewID: 10, CreatedAt: now},
		{ID: 2, ReviewID: 20, CreatedAt: now},
		{ID: 3, ReviewID: 10, CreatedAt: now},
		{ID: 4, ReviewID: 0, CreatedAt: now}, // no parent review
	}

	index := indexCommentsByReview(comments)

	require.Len(t, index, 2)
	require.Len(t, index[10], 2)
	// Input order preserved within the group.
	assert.Equal(t, int64(1), index[10][0].ID)
	assert.Equal(t, int64(3), index[10][1].ID)
	assert.Equal(t, int64(2), index[20][0].ID)
}

func TestIndexCommentsByReview_Empty(t *testing.T) {
	index := indexCommentsByReview(nil)
	assert.Empty(t, index)
}

func TestAggregateTimeline_OrderedByTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := AggregateTimeline(
		[]model.Review{
			{ID: 1, AuthorLogin: "alice", State: model.ReviewStateApproved, SubmittedAt: base.Add(3 * time.Hour)},
		},
		[]model.ReviewComment{
			{ID: 2, AuthorLogin: "bob", CreatedAt: base.Add(2 * time.Hour)},
		},
		[]model.IssueComment{
			{ID: 3, AuthorLogin: "carol", CreatedAt: base.Add(time.Hour)},
		},
		[]model.Commit{
			{SHA: "abc", AuthorName: "Dave", AuthoredAt: base},
		},
	)

	require.Len(t, events, 4)
	assert.Equal(t, model.EventKindCommit, events[0].Kind())
	assert.Equal(t, model.EventKindIssueComment, events[1].Kind())
	assert.Equal(t, model.EventKindReviewComment, events[2].Kind())
	assert.Equal(t, model.EventKindReview, events[3].Kind())

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].EventTime().Before(events[i-1].EventTime()))
	}
}

func TestAggregateTimeline_TieBreakByCategory(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := AggregateTimeline(
		[]model.Review{{ID: 1, State: model.ReviewStateCommented, SubmittedAt: ts}},
		[]model.ReviewComment{{ID: 2, CreatedAt: ts}},
		[]model.IssueComment{{ID: 3, CreatedAt: ts}},
		[]model.Commit{{SHA: "abc", AuthoredAt: ts}},
	)

	require.Len(t, events, 4)
	assert.Equal(t, model.EventKindReview, events[0].Kind())
	assert.Equal(t, model.EventKindReviewComment, events[1].Kind())
	assert.Equal(t, model.EventKindIssueComment, events[2].Kind())
	assert.Equal(t, model.EventKindCommit, events[3].Kind())
}

func TestAggregateTimeline_NestsCommentsUnderEmittedReview(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := AggregateTimeline(
		[]model.Review{{ID: 10, State: model.ReviewStateChangesRequested, SubmittedAt: ts}},
		[]model.ReviewComment{
			{ID: 1, ReviewID: 10, CreatedAt: ts.Add(time.Minute)},
			{ID: 2, ReviewID: 10, CreatedAt: ts.Add(2 * time.Minute)},
		},
		nil,
		nil,
	)

	// Both comments nest under the review; nothing appears top-level.
	require.Len(t, events, 1)
	review, ok := events[0].(model.Review)
	require.True(t, ok)
	require.Len(t, review.AssociatedComments, 2)
	assert.Equal(t, int64(1), review.AssociatedComments[0].ID)
	assert.Equal(t, int64(2), review.AssociatedComments[1].ID)
}

func TestAggregateTimeline_ReviewWithoutCommentsGetsEmptySlice(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := AggregateTimeline(
		[]model.Review{{ID: 10, State: model.ReviewStateApproved, SubmittedAt: ts}},
		nil, nil, nil,
	)

	require.Len(t, events, 1)
	review := events[0].(model.Review)
	assert.NotNil(t, review.AssociatedComments)
	assert.Empty(t, review.AssociatedComments)
}

func TestAggregateTimeline_PendingReviewDroppedCommentsSurface(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := AggregateTimeline(
		[]model.Review{{ID: 10, State: model.ReviewStatePending, SubmittedAt: ts}},
		[]model.ReviewComment{{ID: 1, ReviewID: 10, CreatedAt: ts}},
		nil,
		nil,
	)

	// The pending review is dropped entirely; its comment becomes top-level.
	require.Len(t, events, 1)
	comment, ok := events[0].(model.ReviewComment)
	require.True(t, ok)
	assert.Equal(t, int64(1), comment.ID)
}

func TestAggregateTimeline_UnsubmittedReviewDropped(t *testing.T) {
	events := AggregateTimeline(
		[]model.Review{{ID: 10, State: model.ReviewStateCommented}}, // zero SubmittedAt
		nil, nil, nil,
	)

	assert.Empty(t, events)
}

func TestAggregateTimeline_OrphanedCommentStaysTopLevel(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := AggregateTimeline(
		nil,
		[]model.ReviewComment{{ID: 1, ReviewID: 999, CreatedAt: ts}},
		nil,
		nil,
	)

	require.Len(t, events, 1)
	assert.Equal(t, model.EventKindReviewComment, events[0].Kind())
}

func TestAggregateTimeline_CommitWithoutDateDropped(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	events := AggregateTimeline(
		nil, nil, nil,
		[]model.Commit{
			{SHA: "dated", AuthoredAt: ts},
			{SHA: "undated"}, // zero AuthoredAt
		},
	)

	require.Len(t, events, 1)
	assert.Equal(t, "dated", events[0].(model.Commit).SHA)
}

func TestAggregateTimeline_Idempotent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reviews := []model.Review{{ID: 10, State: model.ReviewStateApproved, SubmittedAt: ts}}
	comments := []model.ReviewComment{
		{ID: 1, ReviewID: 10, CreatedAt: ts},
		{ID: 2, CreatedAt: ts.Add(time.Minute)},
	}
	issueComments := []model.IssueComment{{ID: 3, CreatedAt: ts.Add(2 * time.Minute)}}
	commits := []model.Commit{{SHA: "abc", AuthoredAt: ts.Add(3 * time.Minute)}}

	first := AggregateTimeline(reviews, comments, issueComments, commits)
	second := AggregateTimeline(reviews, comments, issueComments, commits)

	assert.Equal(t, first, second)
}

func TestAggregateTimeline_EmptyInputs(t *testing.T) {
	events := AggregateTimeline(nil, nil, nil, nil)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}
