// Package overlay classifies buffer text as match / non-match for rendering.
// It never moves the selection; navigation lives in the search service.
package overlay

import (
	"editgrep/internal/domain"
	"editgrep/internal/query"
)

// Overlay tags every match of a compiled query with StyleMatch
type Overlay struct {
	q *query.Compiled

	// matches of the last line seen; the tokenizer walks a line left to right
	line    string
	matches []domain.LineMatch
	primed  bool
}

// New returns nil for empty or invalid queries so that no overlay is installed
func New(q *query.Compiled) *Overlay {
	if !q.Valid() {
		return nil
	}
	return &Overlay{q: q}
}

// Query returns the compiled query the overlay highlights
func (o *Overlay) Query() *query.Compiled { return o.q }

// Token consumes a match starting at s.Pos, or skips ahead to the next
// position where one could start.
func (o *Overlay) Token(s *Stream) string {
	matches := o.lineMatches(s.String)

	if end, ok := startsAt(matches, s.Pos); ok {
		s.Pos = end
		return StyleMatch
	}

	if o.q.Kind == query.KindPattern {
		s.Next()
		return ""
	}

	for !s.EOL() {
		s.Next()
		if _, ok := startsAt(matches, s.Pos); ok {
			break
		}
	}
	return ""
}

func (o *Overlay) lineMatches(line string) []domain.LineMatch {
	if !o.primed || line != o.line {
		o.line = line
		o.matches = o.q.LineMatches(line)
		o.primed = true
	}
	return o.matches
}

func startsAt(matches []domain.LineMatch, pos int) (int, bool) {
	for _, m := range matches {
		if m.Start == pos {
			return m.End, true
		}
		if m.Start > pos {
			break
		}
	}
	return 0, false
}
