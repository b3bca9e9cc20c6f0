package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
	"github.com/ericfisherdev/prfeed/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.WatchStore = (*WatchRepo)(nil)

// WatchRepo is the SQLite implementation of the WatchStore port interface.
type WatchRepo struct {
	db *sql.DB
}

// NewWatchRepo creates a new WatchRepo backed by the given database.
func NewWatchRepo(db *sql.DB) *WatchRepo {
	return &WatchRepo{db: db}
}

// Add inserts a pull request into the watch list. Returns
// driven.ErrWatchExists if the PR is already watched.
func (r *WatchRepo) Add(ctx context.Context, watch model.WatchedPR) error {
	const query = `INSERT INTO watches (repo_full_name, pr_number, added_at) VALUES (?, ?, ?)`

	addedAt := watch.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query, watch.RepoFullName, watch.Number, addedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("add watch %s#%d: %w", watch.RepoFullName, watch.Number, driven.ErrWatchExists)
		}
		return fmt.Errorf("add watch %s#%d: %w", watch.RepoFullName, watch.Number, err)
	}

	return nil
}

// Remove deletes a pull request from the watch list. Returns
// driven.ErrWatchNotFound if the PR is not watched.
func (r *WatchRepo) Remove(ctx context.Context, repoFullName string, prNumber int) error {
	const query = `DELETE FROM watches WHERE repo_full_name = ? AND pr_number = ?`

	result, err := r.db.ExecContext(ctx, query, repoFullName, prNumber)
	if err != nil {
		return fmt.Errorf("remove watch %s#%d: %w", repoFullName, prNumber, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("remove watch %s#%d: %w", repoFullName, prNumber, driven.ErrWatchNotFound)
	}

	return nil
}

// ListAll returns the watch list ordered by repository and PR number.
func (r *WatchRepo) ListAll(ctx context.Context) ([]model.WatchedPR, error) {
	const query = `SELECT id, repo_full_name, pr_number, added_at FROM watches ORDER BY repo_full_name, pr_number`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list watches: %w", err)
	}
	defer rows.Close()

	watches := []model.WatchedPR{}
	for rows.Next() {
		var w model.WatchedPR
		if err := rows.Scan(&w.ID, &w.RepoFullName, &w.Number, &w.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watch: %w", err)
		}
		watches = append(watches, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watches: %w", err)
	}

	return watches, nil
}
