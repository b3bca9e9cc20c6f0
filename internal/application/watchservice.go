package application

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
	"github.com/ericfisherdev/prfeed/internal/domain/port/driven"
)

// Sink receives the replacement timeline when a watched pull request's feed
// changes. Each watched PR has exactly one sink.
type Sink func(events []model.TimelineEvent)

type watchKey struct {
	repoFullName string
	prNumber     int
}

type watchEntry struct {
	sink        Sink
	snapshot    []model.TimelineEvent
	hasSnapshot bool
	lastChecked time.Time
}

// WatchService owns the set of monitored pull requests and the poll loop.
// The ticker goroutine runs only while at least one PR is watched: the first
// Watch starts it, removing the last watch stops it. Snapshots live in
// memory only.
type WatchService struct {
	timeline *TimelineService
	interval time.Duration

	mu      sync.Mutex
	watches map[watchKey]*watchEntry
	stopCh  chan struct{}
}

// NewWatchService creates a WatchService polling on the given interval.
func NewWatchService(timeline *TimelineService, interval time.Duration) *WatchService {
	return &WatchService{
		timeline: timeline,
		interval: interval,
		watches:  make(map[watchKey]*watchEntry),
	}
}

// Watch adds a pull request to the monitored set with its notification sink.
// Starting to watch the first PR starts the poll loop. Returns
// driven.ErrWatchExists if the PR is already watched.
func (s *WatchService) Watch(repoFullName string, prNumber int, sink Sink) error {
	key := watchKey{repoFullName: repoFullName, prNumber: prNumber}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watches[key]; ok {
		return fmt.Errorf("watch %s#%d: %w", repoFullName, prNumber, driven.ErrWatchExists)
	}

	s.watches[key] = &watchEntry{sink: sink}

	if s.stopCh == nil {
		s.stopCh = make(chan struct{})
		go s.loop(s.stopCh)
		slog.Info("poll loop started", "interval", s.interval)
	}

	slog.Info("watching pull request", "repo", repoFullName, "pr", prNumber)
	return nil
}

// Unwatch removes a pull request from the monitored set. Removing the last
// watched PR stops the poll loop. An in-flight check for the removed PR
// completes and its result is discarded. Returns driven.ErrWatchNotFound if
// the PR is not watched.
func (s *WatchService) Unwatch(repoFullName string, prNumber int) error {
	key := watchKey{repoFullName: repoFullName, prNumber: prNumber}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watches[key]; !ok {
		return fmt.Errorf("unwatch %s#%d: %w", repoFullName, prNumber, driven.ErrWatchNotFound)
	}

	delete(s.watches, key)

	if len(s.watches) == 0 && s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
		slog.Info("poll loop stopped, nothing watched")
	}

	slog.Info("unwatched pull request", "repo", repoFullName, "pr", prNumber)
	return nil
}

// Close stops the poll loop and clears the monitored set.
func (s *WatchService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	s.watches = make(map[watchKey]*watchEntry)
}

// IsWatched reports whether the pull request is currently monitored.
func (s *WatchService) IsWatched(repoFullName string, prNumber int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.watches[watchKey{repoFullName: repoFullName, prNumber: prNumber}]
	return ok
}

// Snapshot returns the last successfully aggregated timeline for a watched
// pull request. The second return is false when the PR is not watched or has
// not completed a poll yet.
func (s *WatchService) Snapshot(repoFullName string, prNumber int) ([]model.TimelineEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.watches[watchKey{repoFullName: repoFullName, prNumber: prNumber}]
	if !ok || !entry.hasSnapshot {
		return nil, false
	}
	return entry.snapshot, true
}

// loop ticks on the configured interval until stopped. The first pass runs
// one full interval after the first watch; reads before that are served by
// the live-build fallback in the HTTP handler.
func (s *WatchService) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.Tick(context.Background())
		}
	}
}

// Tick runs one polling pass over every watched pull request. PRs are checked
// concurrently; one PR's fetch failure never blocks the others.
func (s *WatchService) Tick(ctx context.Context) {
	start := time.Now()

	s.mu.Lock()
	keys := make([]watchKey, 0, len(s.watches))
	for key := range s.watches {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	if len(keys) == 0 {
		return
	}

	var g errgroup.Group
	for _, key := range keys {
		g.Go(func() error {
			s.checkOne(ctx, key)
			return nil
		})
	}
	_ = g.Wait()

	slog.Debug("poll tick complete",
		"watched", len(keys),
		"duration", time.Since(start).Round(time.Millisecond),
	)
}

// checkOne re-aggregates one PR's timeline and notifies its sink if the feed
// structurally changed. On fetch failure the last-known-good snapshot is
// retained and the loop continues on schedule.
func (s *WatchService) checkOne(ctx context.Context, key watchKey) {
	events, err := s.timeline.BuildTimeline(ctx, key.repoFullName, key.prNumber)
	if err != nil {
		slog.Error("timeline poll failed",
			"repo", key.repoFullName,
			"pr", key.prNumber,
			"error", err,
		)
		return
	}

	s.mu.Lock()
	entry, ok := s.watches[key]
	if !ok {
		// Unwatched while the fetch was in flight; discard the result.
		s.mu.Unlock()
		return
	}

	changed := !entry.hasSnapshot || !reflect.DeepEqual(entry.snapshot, events)
	var sink Sink
	if changed {
		entry.snapshot = events
		entry.hasSnapshot = true
		sink = entry.sink
	}
	entry.lastChecked = time.Now()
	s.mu.Unlock()

	if changed {
		slog.Info("timeline changed",
			"repo", key.repoFullName,
			"pr", key.prNumber,
			"events", len(events),
		)
		if sink != nil {
			sink(events)
		}
	}
}
