package application

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
	"github.com/ericfisherdev/prfeed/internal/domain/port/driven"
)

// TimelineService fetches a pull request's activity collections and
// aggregates them into the timeline feed. It depends only on the GitHubClient
// port.
type TimelineService struct {
	ghClient driven.GitHubClient
}

// NewTimelineService creates a TimelineService with the required dependency.
func NewTimelineService(ghClient driven.GitHubClient) *TimelineService {
	return &TimelineService{ghClient: ghClient}
}

// BuildTimeline fetches reviews, review comments, issue comments, and commits
// for a pull request concurrently and returns the aggregated feed. Any fetch
// failure fails the whole build; callers retain their last successful result.
func (s *TimelineService) BuildTimeline(ctx context.Context, repoFullName string, prNumber int) ([]model.TimelineEvent, error) {
	var (
		reviews        []model.Review
		reviewComments []model.ReviewComment
		issueComments  []model.IssueComment
		commits        []model.Commit
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		reviews, err = s.ghClient.FetchReviews(gctx, repoFullName, prNumber)
		return err
	})

	g.Go(func() error {
		var err error
		reviewComments, err = s.ghClient.FetchReviewComments(gctx, repoFullName, prNumber)
		return err
	})

	g.Go(func() error {
		var err error
		issueComments, err = s.ghClient.FetchIssueComments(gctx, repoFullName, prNumber)
		return err
	})

	g.Go(func() error {
		var err error
		commits, err = s.ghClient.FetchCommits(gctx, repoFullName, prNumber)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregateTimeline(reviews, reviewComments, issueComments, commits), nil
}
