// Package application contains use-case orchestration services.
package application

import (
	"sort"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

// indexCommentsByReview groups inline comments by their parent review ID,
// preserving input order within each group. Comments with no parent review
// (zero ReviewID) are excluded; they stay top-level.
func indexCommentsByReview(comments []model.ReviewComment) map[int64][]model.ReviewComment {
	index := make(map[int64][]model.ReviewComment)
	for _, c := range comments {
		if c.ReviewID == 0 {
			continue
		}
		index[c.ReviewID] = append(index[c.ReviewID], c)
	}
	return index
}

// kindRank orders event categories for timestamp tie-breaking. The precedence
// is explicit rather than relying on sort stability over append order, so the
// result is deterministic under any sort implementation.
func kindRank(k model.EventKind) int {
	switch k {
	case model.EventKindReview:
		return 0
	case model.EventKindReviewComment:
		return 1
	case model.EventKindIssueComment:
		return 2
	case model.EventKindCommit:
		return 3
	default:
		return 4
	}
}

// AggregateTimeline merges the four activity collections of a pull request
// into a single chronologically ordered feed. It is a pure function of its
// inputs: every call builds fresh event values and identical inputs yield
// structurally identical output.
//
// Rules:
//   - Reviews that are pending or lack a submission time are dropped; their
//     inline comments surface as top-level events instead.
//   - An emitted review carries its inline comments nested in
//     AssociatedComments; those comments do not appear top-level.
//   - Commits without an author date are dropped; they cannot be placed on
//     the timeline.
//   - The result is sorted ascending by event time, ties broken by category:
//     review < review comment < issue comment < commit.
func AggregateTimeline(
	reviews []model.Review,
	reviewComments []model.ReviewComment,
	issueComments []model.IssueComment,
	commits []model.Commit,
) []model.TimelineEvent {
	commentsByReview := indexCommentsByReview(reviewComments)

	events := make([]model.TimelineEvent, 0,
		len(reviews)+len(reviewComments)+len(issueComments)+len(commits))

	emittedReviews := make(map[int64]bool, len(reviews))
	for _, r := range reviews {
		if r.State == model.ReviewStatePending || r.SubmittedAt.IsZero() {
			continue
		}

		r.AssociatedComments = append([]model.ReviewComment{}, commentsByReview[r.ID]...)
		emittedReviews[r.ID] = true
		events = append(events, r)
	}

	for _, c := range reviewComments {
		if c.ReviewID != 0 && emittedReviews[c.ReviewID] {
			continue
		}
		events = append(events, c)
	}

	for _, c := range issueComments {
		events = append(events, c)
	}

	for _, c := range commits {
		if c.AuthoredAt.IsZero() {
			continue
		}
		events = append(events, c)
	}

	sort.SliceStable(events, func(i, j int) bool {
		ti, tj := events[i].EventTime(), events[j].EventTime()
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return kindRank(events[i].Kind()) < kindRank(events[j].Kind())
	})

	return events
}
