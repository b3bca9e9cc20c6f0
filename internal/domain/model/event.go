package model

import "time"

// EventKind identifies the concrete type of a timeline event. The values are
// the wire-level kind tags used by the API.
type EventKind string

const (
	EventKindReview        EventKind = "review"
	EventKindReviewComment EventKind = "review_comment"
	EventKindIssueComment  EventKind = "issue_comment"
	EventKindCommit        EventKind = "commit"
)

// TimelineEvent is one entry in a pull request's merged activity timeline.
// Implemented by Review, ReviewComment, IssueComment, and Commit.
type TimelineEvent interface {
	Kind() EventKind
	EventTime() time.Time
}

// Review is a submitted pull request review. Inline comments that belong to
// the review are nested under AssociatedComments rather than appearing as
// separate timeline entries.
type Review struct {
	ID                 int64
	AuthorLogin        string
	AuthorAvatarURL    string
	State              ReviewState
	Body               string
	URL                string
	SubmittedAt        time.Time
	AssociatedComments []ReviewComment
}

func (r Review) Kind() EventKind      { return EventKindReview }
func (r Review) EventTime() time.Time { return r.SubmittedAt }

// ReviewComment is an inline comment anchored to a line range in the diff.
// ReviewID links it to its parent review; zero means the parent is unknown.
type ReviewComment struct {
	ID          int64
	ReviewID    int64
	AuthorLogin string
	Body        string
	Path        string
	Line        int
	StartLine   int
	DiffHunk    string
	URL         string
	CreatedAt   time.Time
}

func (c ReviewComment) Kind() EventKind      { return EventKindReviewComment }
func (c ReviewComment) EventTime() time.Time { return c.CreatedAt }

// IssueComment is a top-level conversation comment on the pull request.
type IssueComment struct {
	ID          int64
	AuthorLogin string
	Body        string
	URL         string
	CreatedAt   time.Time
}

func (c IssueComment) Kind() EventKind      { return EventKindIssueComment }
func (c IssueComment) EventTime() time.Time { return c.CreatedAt }

// Commit is a commit pushed to the pull request branch. AuthorLogin is empty
// when the commit author has no linked GitHub account; AuthorName always
// carries the git author name.
type Commit struct {
	SHA             string
	AuthorName      string
	AuthorLogin     string
	AuthorAvatarURL string
	Message         string
	URL             string
	AuthoredAt      time.Time
}

func (c Commit) Kind() EventKind      { return EventKindCommit }
func (c Commit) EventTime() time.Time { return c.AuthoredAt }
