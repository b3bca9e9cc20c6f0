// Package commands defines the prfeed CLI. The root command runs the daemon;
// the watch subcommands edit the persisted watch list.
package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/prfeed/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/prfeed/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/prfeed/internal/adapter/driving/http"
	"github.com/ericfisherdev/prfeed/internal/application"
	"github.com/ericfisherdev/prfeed/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "prfeed",
	Short:        "Watch GitHub pull requests and serve their activity feeds",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the watch daemon and API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, watchCmd)
}

// Execute runs the CLI. Errors are logged here so main stays a thin exit-code shim.
func Execute() error {
	// Precedence: real env vars > .env file values.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		slog.Error("fatal error", "error", err)
	}
	return err
}

func runServe() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"poll_interval", cfg.PollInterval,
		"authenticated", cfg.GitHubToken != "",
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and run migrations.
	db, err := sqliteadapter.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath)

	// 4. Wire adapters and services.
	watchStore := sqliteadapter.NewWatchRepo(db)
	ghClient := githubadapter.NewClient(cfg.GitHubToken)
	timelineSvc := application.NewTimelineService(ghClient)
	watchSvc := application.NewWatchService(timelineSvc, cfg.PollInterval)
	defer watchSvc.Close()

	// 5. Resume monitoring for the persisted watch list.
	watches, err := watchStore.ListAll(ctx)
	if err != nil {
		return err
	}
	for _, watch := range watches {
		if err := watchSvc.Watch(watch.RepoFullName, watch.Number, httphandler.FeedUpdateSink(watch.RepoFullName, watch.Number)); err != nil {
			slog.Error("failed to resume watch", "repo", watch.RepoFullName, "pr", watch.Number, "error", err)
		}
	}
	slog.Info("watches resumed", "count", len(watches))

	// 6. HTTP server.
	apiHandler := httphandler.NewHandler(watchStore, watchSvc, timelineSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
