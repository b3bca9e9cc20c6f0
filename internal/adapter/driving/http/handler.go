// Package httphandler is the HTTP driving adapter that serves the REST API.
package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ericfisherdev/prfeed/internal/adapter/driving/web"
	"github.com/ericfisherdev/prfeed/internal/application"
	"github.com/ericfisherdev/prfeed/internal/domain/model"
	"github.com/ericfisherdev/prfeed/internal/domain/port/driven"
)

// Handler serves the watch list and per-PR timeline endpoints.
type Handler struct {
	watchStore  driven.WatchStore
	watchSvc    *application.WatchService
	timelineSvc *application.TimelineService
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	watchStore driven.WatchStore,
	watchSvc *application.WatchService,
	timelineSvc *application.TimelineService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		watchStore:  watchStore,
		watchSvc:    watchSvc,
		timelineSvc: timelineSvc,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/watches", h.ListWatches)
	mux.HandleFunc("POST /api/v1/watches", h.AddWatch)
	mux.HandleFunc("DELETE /api/v1/watches/{owner}/{repo}/{number}", h.RemoveWatch)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/prs/{number}/timeline", h.GetTimeline)
	mux.HandleFunc("GET /api/v1/repos/{owner}/{repo}/prs/{number}/feed", h.GetFeed)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// ListWatches returns all watched pull requests.
func (h *Handler) ListWatches(w http.ResponseWriter, r *http.Request) {
	watches, err := h.watchStore.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list watches", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]WatchResponse, 0, len(watches))
	for _, watch := range watches {
		resp = append(resp, toWatchResponse(watch))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddWatch adds a pull request to the watch list and starts monitoring it.
func (h *Handler) AddWatch(w http.ResponseWriter, r *http.Request) {
	var req AddWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !strings.Contains(req.Repo, "/") || req.Number <= 0 {
		writeError(w, http.StatusBadRequest, "repo must be owner/repo and number must be positive")
		return
	}

	watch := model.WatchedPR{
		RepoFullName: req.Repo,
		Number:       req.Number,
		AddedAt:      time.Now().UTC(),
	}

	if err := h.watchStore.Add(r.Context(), watch); err != nil {
		if errors.Is(err, driven.ErrWatchExists) {
			writeError(w, http.StatusConflict, "pull request already watched")
			return
		}
		h.logger.Error("failed to add watch", "repo", req.Repo, "number", req.Number, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.watchSvc.Watch(req.Repo, req.Number, FeedUpdateSink(req.Repo, req.Number)); err != nil && !errors.Is(err, driven.ErrWatchExists) {
		h.logger.Error("failed to start watching", "repo", req.Repo, "number", req.Number, "error", err)
	}

	writeJSON(w, http.StatusCreated, toWatchResponse(watch))
}

// RemoveWatch removes a pull request from the watch list and stops monitoring it.
func (h *Handler) RemoveWatch(w http.ResponseWriter, r *http.Request) {
	repoFullName, number, ok := prFromPath(w, r)
	if !ok {
		return
	}

	if err := h.watchStore.Remove(r.Context(), repoFullName, number); err != nil {
		if errors.Is(err, driven.ErrWatchNotFound) {
			writeError(w, http.StatusNotFound, "pull request not watched")
			return
		}
		h.logger.Error("failed to remove watch", "repo", repoFullName, "number", number, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.watchSvc.Unwatch(repoFullName, number); err != nil && !errors.Is(err, driven.ErrWatchNotFound) {
		h.logger.Error("failed to stop watching", "repo", repoFullName, "number", number, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTimeline returns the aggregated timeline for a watched pull request.
// An empty timeline is a valid result and returns 200 with an empty list.
func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	events, ok := h.timelineFor(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toTimelineResponse(events))
}

// GetFeed returns the rendered feed view models for a watched pull request.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	events, ok := h.timelineFor(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, web.BuildFeed(events))
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// timelineFor resolves the timeline for the PR in the request path: the last
// poll snapshot when available, otherwise a live build (first request can
// arrive before the first poll completes). Writes the error response itself
// and returns false when the request cannot be served.
func (h *Handler) timelineFor(w http.ResponseWriter, r *http.Request) ([]model.TimelineEvent, bool) {
	repoFullName, number, ok := prFromPath(w, r)
	if !ok {
		return nil, false
	}

	if !h.watchSvc.IsWatched(repoFullName, number) {
		writeError(w, http.StatusNotFound, "pull request not watched")
		return nil, false
	}

	if events, ok := h.watchSvc.Snapshot(repoFullName, number); ok {
		return events, true
	}

	events, err := h.timelineSvc.BuildTimeline(r.Context(), repoFullName, number)
	if err != nil {
		h.logger.Error("live timeline build failed", "repo", repoFullName, "number", number, "error", err)
		writeError(w, http.StatusBadGateway, "github fetch failed")
		return nil, false
	}

	return events, true
}

// prFromPath extracts "owner/repo" and the PR number from the request path.
// Writes a 400 response and returns false on a malformed number.
func prFromPath(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	owner := r.PathValue("owner")
	repo := r.PathValue("repo")
	numberStr := r.PathValue("number")

	number, err := strconv.Atoi(numberStr)
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "invalid PR number")
		return "", 0, false
	}

	return owner + "/" + repo, number, true
}

// FeedUpdateSink is the single downstream notification target for one watched
// pull request. The daemon has no push channel to clients, so the sink records
// the change; clients observe it through the timeline endpoints.
func FeedUpdateSink(repoFullName string, number int) application.Sink {
	return func(events []model.TimelineEvent) {
		slog.Info("feed updated",
			"repo", repoFullName,
			"pr", number,
			"events", len(events),
		)
	}
}
