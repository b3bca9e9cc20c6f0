// Package diffhunk parses unified diff hunks attached to review comments and
// computes the bounded window of lines to render around a comment anchor.
package diffhunk

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// headerPattern matches a unified diff hunk header and captures the starting
// line numbers. Example: "@@ -12,7 +12,9 @@ func main() {".
var headerPattern = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// leadingContext is the number of context lines shown above a single-line
// comment anchor. Range anchors get no extra leading context.
const leadingContext = 3

// Kind classifies a hunk line.
type Kind string

const (
	KindAddition Kind = "addition"
	KindDeletion Kind = "deletion"
	KindContext  Kind = "context"
	KindHeader   Kind = "header"
)

// Line is a single parsed hunk line. FileLine is the line number in the
// post-change version of the file; it is zero for headers, deletions, and
// blank trailing lines, which have no new-file position.
type Line struct {
	FileLine int
	Kind     Kind
	Text     string
}

// ParseError reports a hunk whose header could not be recognized. Callers
// should render the raw hunk text (or nothing) for that comment and continue.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing diff hunk: %s", e.Reason)
}

// Parse splits a hunk into classified lines with reconstructed new-file line
// numbers. The walk keeps a running counter initialized from the header's
// new-file start: additions and non-empty context lines take the current
// counter value and advance it; deletions have no new-file representation and
// leave the counter untouched; blank lines are kept as unnumbered context so
// trailing newlines do not shift the numbering.
func Parse(hunk string) ([]Line, error) {
	lines, _, err := parse(hunk)
	return lines, err
}

func parse(hunk string) ([]Line, int, error) {
	rawLines := strings.Split(hunk, "\n")

	var (
		parsed     []Line
		headerSeen bool
		newStart   int
		counter    int
	)

	for _, raw := range rawLines {
		if !headerSeen {
			m := headerPattern.FindStringSubmatch(raw)
			if m == nil {
				if strings.TrimSpace(raw) == "" {
					continue
				}
				return nil, 0, &ParseError{Reason: fmt.Sprintf("content before hunk header: %q", raw)}
			}

			start, err := strconv.Atoi(m[3])
			if err != nil {
				return nil, 0, &ParseError{Reason: fmt.Sprintf("invalid new-file start in header %q", raw)}
			}

			headerSeen = true
			newStart = start
			counter = start
			parsed = append(parsed, Line{Kind: KindHeader, Text: raw})
			continue
		}

		switch {
		case strings.HasPrefix(raw, "+"):
			parsed = append(parsed, Line{FileLine: counter, Kind: KindAddition, Text: raw})
			counter++
		case strings.HasPrefix(raw, "-"):
			parsed = append(parsed, Line{Kind: KindDeletion, Text: raw})
		case raw == "":
			parsed = append(parsed, Line{Kind: KindContext, Text: raw})
		default:
			parsed = append(parsed, Line{FileLine: counter, Kind: KindContext, Text: raw})
			counter++
		}
	}

	if !headerSeen {
		return nil, 0, &ParseError{Reason: "no hunk header found"}
	}

	return parsed, newStart, nil
}

// Window returns the hunk lines to render for a comment anchored at
// [startLine, endLine] in the new file. A zero startLine, or startLine equal
// to endLine, is a single-line anchor: the window covers
// [max(newStart, endLine-3), endLine]. A proper range covers exactly
// [startLine, endLine]. Only additions and numbered context lines are
// eligible; deletions are never included. An anchor outside the hunk's
// coverage yields an empty window, not an error.
func Window(hunk string, startLine, endLine int) ([]Line, error) {
	parsed, newStart, err := parse(hunk)
	if err != nil {
		return nil, err
	}

	lo, hi := startLine, endLine
	if startLine == 0 || startLine == endLine {
		lo = endLine - leadingContext
		if newStart > lo {
			lo = newStart
		}
		hi = endLine
	}

	var window []Line
	for _, line := range parsed {
		if line.Kind != KindAddition && line.Kind != KindContext {
			continue
		}
		if line.FileLine == 0 {
			continue
		}
		if line.FileLine >= lo && line.FileLine <= hi {
			window = append(window, line)
		}
	}

	return window, nil
}
