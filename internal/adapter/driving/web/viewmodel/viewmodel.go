// Package viewmodel defines presentation-ready structs for the rendered feed.
// View models decouple feed rendering from domain model types.
package viewmodel

// Feed is the fully rendered activity feed for one pull request.
type Feed struct {
	Items []FeedItem `json:"items"`
	// Empty marks a valid timeline with no activity; clients render an
	// explicit "no activity" state instead of an empty list.
	Empty bool `json:"empty"`
}

// FeedItem is one rendered timeline event. Kind selects which of the
// optional field groups is populated.
type FeedItem struct {
	Kind      string `json:"kind"`
	Author    string `json:"author"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url,omitempty"`

	// Review fields.
	State    string          `json:"state,omitempty"`
	BodyHTML string          `json:"body_html,omitempty"`
	Comments []InlineComment `json:"comments,omitempty"`

	// Top-level inline comment fields.
	Inline *InlineComment `json:"inline,omitempty"`

	// Commit fields.
	SHA     string `json:"sha,omitempty"`
	Message string `json:"message,omitempty"`
}

// InlineComment is a rendered review comment with its windowed diff hunk.
type InlineComment struct {
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path,omitempty"`
	// Anchor is the display label for the comment's line range,
	// e.g. "line 42" or "lines 40 to 45".
	Anchor   string `json:"anchor,omitempty"`
	BodyHTML string `json:"body_html,omitempty"`
	URL      string `json:"url,omitempty"`

	// HunkLines and HunkHTML hold the bounded rendering window. Both are
	// empty when the window is empty, in which case the hunk block is
	// omitted entirely.
	HunkLines []HunkLine `json:"hunk_lines,omitempty"`
	HunkHTML  string     `json:"hunk_html,omitempty"`

	// RawHunk carries the unparsed hunk text when header parsing failed;
	// clients may show it verbatim or skip it.
	RawHunk string `json:"raw_hunk,omitempty"`
}

// HunkLine is one line of a windowed diff hunk. Number is the new-file line
// number; it is never zero inside a window.
type HunkLine struct {
	Number int    `json:"number"`
	Kind   string `json:"kind"`
	Text   string `json:"text"`
}
