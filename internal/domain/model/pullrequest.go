package model

import "time"

// PullRequest holds the header data for a watched pull request. Only the
// fields the feed header displays are mapped; the activity itself lives in
// the timeline events.
type PullRequest struct {
	Number       int
	RepoFullName string
	Title        string
	Author       string
	Status       PRStatus
	IsDraft      bool
	URL          string
	OpenedAt     time.Time
	UpdatedAt    time.Time
}
