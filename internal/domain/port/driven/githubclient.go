package driven

import (
	"context"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request activity from
// the GitHub API. All methods return fully mapped domain types; pagination is
// handled inside the adapter.
type GitHubClient interface {
	// FetchPullRequest returns header data for a single pull request.
	FetchPullRequest(ctx context.Context, repoFullName string, prNumber int) (*model.PullRequest, error)
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
	FetchReviewComments(ctx context.Context, repoFullName string, prNumber int) ([]model.ReviewComment, error)
	FetchIssueComments(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueComment, error)
	FetchCommits(ctx context.Context, repoFullName string, prNumber int) ([]model.Commit, error)
}
