// Package query turns a raw find-bar string and its option toggles into a
// matcher shared by the buffer locator, the highlight overlay and the local
// content index.
package query

import (
	"regexp"
	"strings"

	"editgrep/internal/domain"
)

// Kind identifies how a Compiled query matches text
type Kind int

const (
	KindEmpty Kind = iota
	KindLiteral
	KindWholeWord
	KindPattern
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLiteral:
		return "literal"
	case KindWholeWord:
		return "whole-word"
	case KindPattern:
		return "pattern"
	default:
		return "invalid"
	}
}

// Compiled is an executable matcher. Matches never span lines and are never
// zero-length, so repeated forward searches always make progress.
type Compiled struct {
	Kind Kind
	Text string // raw query as typed
	Fold bool   // case-insensitive
	Err  error  // set when Kind == KindInvalid

	re *regexp.Regexp // nil for case-sensitive literals
}

// Compile builds a matcher from raw and opts. It has no side effects.
func Compile(raw string, opts domain.SearchOptions) *Compiled {
	c := &Compiled{Text: raw, Fold: !opts.CaseSensitive}
	if raw == "" {
		c.Kind = KindEmpty
		return c
	}

	switch {
	case opts.UsePattern:
		re, err := regexp.Compile(c.flags() + raw)
		if err != nil {
			c.Kind = KindInvalid
			c.Err = err
			return c
		}
		c.Kind = KindPattern
		c.re = re

	case opts.WholeWord:
		c.Kind = KindWholeWord
		c.re = regexp.MustCompile(c.flags() + `\b` + regexp.QuoteMeta(raw) + `\b`)

	default:
		c.Kind = KindLiteral
		if c.Fold {
			c.re = regexp.MustCompile(c.flags() + regexp.QuoteMeta(raw))
		}
	}
	return c
}

func (c *Compiled) flags() string {
	if c.Fold {
		return "(?i)"
	}
	return ""
}

// IsEmpty reports whether the query was empty
func (c *Compiled) IsEmpty() bool { return c == nil || c.Kind == KindEmpty }

// Valid reports whether the query can be executed
func (c *Compiled) Valid() bool {
	return c != nil && c.Kind != KindEmpty && c.Kind != KindInvalid
}

// Regexp returns the underlying expression, or nil for case-sensitive literals
func (c *Compiled) Regexp() *regexp.Regexp { return c.re }

// contextFree reports whether a match can be searched for on a suffix of the
// line without changing the result (no anchors or word boundaries involved).
func (c *Compiled) contextFree() bool { return c.Kind == KindLiteral }

// LineMatches returns every non-overlapping match in line, left to right
func (c *Compiled) LineMatches(line string) []domain.LineMatch {
	if !c.Valid() {
		return nil
	}

	var out []domain.LineMatch
	if c.re == nil {
		for col := 0; col <= len(line); {
			i := strings.Index(line[col:], c.Text)
			if i < 0 {
				break
			}
			start := col + i
			out = append(out, domain.LineMatch{Start: start, End: start + len(c.Text)})
			col = start + len(c.Text)
		}
		return out
	}

	for _, loc := range c.re.FindAllStringIndex(line, -1) {
		if loc[1] > loc[0] {
			out = append(out, domain.LineMatch{Start: loc[0], End: loc[1]})
		}
	}
	return out
}

// FindForward returns the first match in line starting at or after col
func (c *Compiled) FindForward(line string, col int) (domain.LineMatch, bool) {
	if !c.Valid() || col > len(line) {
		return domain.LineMatch{}, false
	}
	if col < 0 {
		col = 0
	}

	if c.contextFree() {
		if c.re == nil {
			if i := strings.Index(line[col:], c.Text); i >= 0 {
				return domain.LineMatch{Start: col + i, End: col + i + len(c.Text)}, true
			}
			return domain.LineMatch{}, false
		}
		if loc := c.re.FindStringIndex(line[col:]); loc != nil && loc[1] > loc[0] {
			return domain.LineMatch{Start: col + loc[0], End: col + loc[1]}, true
		}
		return domain.LineMatch{}, false
	}

	for _, m := range c.LineMatches(line) {
		if m.Start >= col {
			return m, true
		}
	}
	return domain.LineMatch{}, false
}

// FindBackward returns the last match in line that ends at or before col
func (c *Compiled) FindBackward(line string, col int) (domain.LineMatch, bool) {
	var (
		best  domain.LineMatch
		found bool
	)
	for _, m := range c.LineMatches(line) {
		if m.End > col {
			break
		}
		best, found = m, true
	}
	return best, found
}

// MatchAt reports whether a match starts exactly at pos and returns its end
func (c *Compiled) MatchAt(line string, pos int) (int, bool) {
	m, ok := c.FindForward(line, pos)
	if !ok || m.Start != pos {
		return 0, false
	}
	return m.End, true
}

// backrefRE finds \1-style back-references so they can be rewritten as ${1}
var backrefRE = regexp.MustCompile(`\\(\d+)`)

// Template converts a replacement string to the form accepted by
// regexp.Expand. Both $1 and \1 refer to the first group.
func Template(replacement string) string {
	return backrefRE.ReplaceAllString(replacement, `$${$1}`)
}

// Expand returns the text that replaces the match [m.Start, m.End) of line.
// Pattern queries substitute group references; other kinds use replacement
// verbatim.
func (c *Compiled) Expand(line string, m domain.LineMatch, replacement string) string {
	if c.Kind != KindPattern {
		return replacement
	}
	for _, sub := range c.re.FindAllStringSubmatchIndex(line, -1) {
		if sub[0] == m.Start && sub[1] == m.End {
			return string(c.re.ExpandString(nil, Template(replacement), line, sub))
		}
	}
	return replacement
}

// ReplaceLine replaces every match in line and returns the new line and the
// number of replacements.
func (c *Compiled) ReplaceLine(line, replacement string) (string, int) {
	matches := c.LineMatches(line)
	if len(matches) == 0 {
		return line, 0
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(line[last:m.Start])
		b.WriteString(c.Expand(line, m, replacement))
		last = m.End
	}
	b.WriteString(line[last:])
	return b.String(), len(matches)
}
