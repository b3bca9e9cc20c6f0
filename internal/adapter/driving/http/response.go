package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/prfeed/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// WatchResponse is the JSON representation of a watched pull request.
type WatchResponse struct {
	Repo    string `json:"repo"`
	Number  int    `json:"number"`
	AddedAt string `json:"added_at"`
}

// AddWatchRequest is the JSON body for the add watch endpoint.
type AddWatchRequest struct {
	Repo   string `json:"repo"`
	Number int    `json:"number"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// TimelineEventResponse is the JSON representation of one timeline event.
// Kind selects which optional field group is populated.
type TimelineEventResponse struct {
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Author    string `json:"author,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	URL       string `json:"url,omitempty"`

	// Review fields.
	ID       int64                   `json:"id,omitempty"`
	State    string                  `json:"state,omitempty"`
	Body     string                  `json:"body,omitempty"`
	Comments []ReviewCommentResponse `json:"comments,omitempty"`

	// Top-level review comment fields.
	Path      string `json:"path,omitempty"`
	Line      int    `json:"line,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	DiffHunk  string `json:"diff_hunk,omitempty"`

	// Commit fields.
	SHA        string `json:"sha,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ReviewCommentResponse is the JSON representation of an inline comment
// nested under its review.
type ReviewCommentResponse struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Body      string `json:"body"`
	Path      string `json:"path,omitempty"`
	Line      int    `json:"line,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	DiffHunk  string `json:"diff_hunk,omitempty"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at"`
}

// toWatchResponse converts a domain WatchedPR to its JSON representation.
func toWatchResponse(w model.WatchedPR) WatchResponse {
	return WatchResponse{
		Repo:    w.RepoFullName,
		Number:  w.Number,
		AddedAt: w.AddedAt.UTC().Format(time.RFC3339),
	}
}

// toTimelineResponse converts an aggregated timeline to its JSON representation.
func toTimelineResponse(events []model.TimelineEvent) []TimelineEventResponse {
	resp := make([]TimelineEventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, toEventResponse(event))
	}
	return resp
}

func toEventResponse(event model.TimelineEvent) TimelineEventResponse {
	base := TimelineEventResponse{
		Kind:      string(event.Kind()),
		Timestamp: event.EventTime().UTC().Format(time.RFC3339),
	}

	switch e := event.(type) {
	case model.Review:
		base.ID = e.ID
		base.Author = e.AuthorLogin
		base.AvatarURL = e.AuthorAvatarURL
		base.State = string(e.State)
		base.Body = e.Body
		base.URL = e.URL
		comments := make([]ReviewCommentResponse, 0, len(e.AssociatedComments))
		for _, c := range e.AssociatedComments {
			comments = append(comments, toReviewCommentResponse(c))
		}
		base.Comments = comments
	case model.ReviewComment:
		base.ID = e.ID
		base.Author = e.AuthorLogin
		base.Body = e.Body
		base.URL = e.URL
		base.Path = e.Path
		base.Line = e.Line
		base.StartLine = e.StartLine
		base.DiffHunk = e.DiffHunk
	case model.IssueComment:
		base.ID = e.ID
		base.Author = e.AuthorLogin
		base.Body = e.Body
		base.URL = e.URL
	case model.Commit:
		base.Author = e.AuthorLogin
		base.AvatarURL = e.AuthorAvatarURL
		base.URL = e.URL
		base.SHA = e.SHA
		base.AuthorName = e.AuthorName
		base.Message = e.Message
	}

	return base
}

// toReviewCommentResponse converts a domain ReviewComment to its JSON representation.
func toReviewCommentResponse(c model.ReviewComment) ReviewCommentResponse {
	return ReviewCommentResponse{
		ID:        c.ID,
		Author:    c.AuthorLogin,
		Body:      c.Body,
		Path:      c.Path,
		Line:      c.Line,
		StartLine: c.StartLine,
		DiffHunk:  c.DiffHunk,
		URL:       c.URL,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
