package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

// ErrWatchExists is returned when adding a pull request that is already on
// the watch list.
var ErrWatchExists = errors.New("pull request already watched")

// ErrWatchNotFound is returned when removing a pull request that is not on
// the watch list.
var ErrWatchNotFound = errors.New("pull request not watched")

// WatchStore defines the driven port for persisting the watch list. The
// watch list is configuration (which PRs to monitor); aggregated timeline
// snapshots are never persisted.
type WatchStore interface {
	Add(ctx context.Context, watch model.WatchedPR) error
	Remove(ctx context.Context, repoFullName string, prNumber int) error
	ListAll(ctx context.Context) ([]model.WatchedPR, error)
}
