package commands

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/prfeed/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/prfeed/internal/config"
	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage the watch list without a running daemon",
}

var watchAddCmd = &cobra.Command{
	Use:   "add <owner/repo> <number>",
	Short: "Add a pull request to the watch list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, number, err := parseWatchArgs(args)
		if err != nil {
			return err
		}
		return withWatchStore(cmd.Context(), func(ctx context.Context, store *sqliteadapter.WatchRepo) error {
			watch := model.WatchedPR{
				RepoFullName: repo,
				Number:       number,
				AddedAt:      time.Now().UTC(),
			}
			if err := store.Add(ctx, watch); err != nil {
				return err
			}
			fmt.Printf("watching %s#%d\n", repo, number)
			return nil
		})
	},
}

var watchRmCmd = &cobra.Command{
	Use:   "rm <owner/repo> <number>",
	Short: "Remove a pull request from the watch list",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, number, err := parseWatchArgs(args)
		if err != nil {
			return err
		}
		return withWatchStore(cmd.Context(), func(ctx context.Context, store *sqliteadapter.WatchRepo) error {
			if err := store.Remove(ctx, repo, number); err != nil {
				return err
			}
			fmt.Printf("stopped watching %s#%d\n", repo, number)
			return nil
		})
	},
}

var watchLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List watched pull requests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWatchStore(cmd.Context(), func(ctx context.Context, store *sqliteadapter.WatchRepo) error {
			watches, err := store.ListAll(ctx)
			if err != nil {
				return err
			}
			if len(watches) == 0 {
				fmt.Println("no watched pull requests")
				return nil
			}
			for _, w := range watches {
				fmt.Printf("%s#%d\tadded %s\n", w.RepoFullName, w.Number, w.AddedAt.UTC().Format(time.RFC3339))
			}
			return nil
		})
	},
}

func init() {
	watchCmd.AddCommand(watchAddCmd, watchRmCmd, watchLsCmd)
}

func parseWatchArgs(args []string) (string, int, error) {
	repo := args[0]
	if !strings.Contains(repo, "/") {
		return "", 0, fmt.Errorf("repository must be owner/repo, got %q", repo)
	}
	number, err := strconv.Atoi(args[1])
	if err != nil || number <= 0 {
		return "", 0, fmt.Errorf("PR number must be a positive integer, got %q", args[1])
	}
	return repo, number, nil
}

// withWatchStore opens the configured database, runs migrations, and hands a
// ready WatchRepo to fn. The watch subcommands share the daemon's database so
// edits show up on the next daemon start.
func withWatchStore(ctx context.Context, fn func(context.Context, *sqliteadapter.WatchRepo) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	if err := sqliteadapter.RunMigrations(db); err != nil {
		return err
	}

	return fn(ctx, sqliteadapter.NewWatchRepo(db))
}
