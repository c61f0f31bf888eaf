package domain

import (
	"fmt"
	"strings"
	"time"
)

// SearchOptions are the toggles read from the find bar each time a query is built
type SearchOptions struct {
	CaseSensitive bool `toml:"case_sensitive" json:"caseSensitive"`
	WholeWord     bool `toml:"whole_word" json:"wholeWord"`
	UsePattern    bool `toml:"use_pattern" json:"usePattern"`
}

// Position is a zero-based line and byte column inside a buffer
type Position struct {
	Line   int
	Column int
}

// Before reports whether p sorts strictly before o
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// MatchSpan is a half-open range [From, To) in a buffer
type MatchSpan struct {
	From Position
	To   Position
}

// Equal reports whether both bounds are identical
func (s MatchSpan) Equal(o MatchSpan) bool {
	return s.From == o.From && s.To == o.To
}

// IsEmpty reports whether the span covers no text
func (s MatchSpan) IsEmpty() bool {
	return s.From == s.To
}

// MatchCountState reports how many matches exist and which one is selected.
// ActiveIndex is 1-based, or -1 when the selection is not a match.
type MatchCountState struct {
	Total       int
	ActiveIndex int
}

// Text renders the counter for the find bar
func (s MatchCountState) Text() string {
	if s.Total == 0 {
		return "No results"
	}
	if s.ActiveIndex > 0 {
		return fmt.Sprintf("%d of %d", s.ActiveIndex, s.Total)
	}
	return fmt.Sprintf("%d found", s.Total)
}

// LineMatch is a column range of a match inside GlobalSearchResult.Content
type LineMatch struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// GlobalSearchResult is one matching line reported by the content index
type GlobalSearchResult struct {
	Path    string      `json:"path"`
	Line    int         `json:"line"` // 1-based
	Content string      `json:"content"`
	Matches []LineMatch `json:"matches"`
}

// Filters restricts a cross-collection search to a set of paths.
// Both fields are comma separated glob lists.
type Filters struct {
	Include string `toml:"include" json:"include"`
	Exclude string `toml:"exclude" json:"exclude"`
}

// SearchRequest is sent to the content index
type SearchRequest struct {
	Query         string `json:"query"`
	CaseSensitive bool   `json:"caseSensitive"`
	UsePattern    bool   `json:"regex"`
	WholeWord     bool   `json:"wholeWord"`
	Include       string `json:"include"`
	Exclude       string `json:"exclude"`
}

// NewSearchRequest builds a request from a query, its options and filters
func NewSearchRequest(query string, opts SearchOptions, filters Filters) SearchRequest {
	return SearchRequest{
		Query:         query,
		CaseSensitive: opts.CaseSensitive,
		UsePattern:    opts.UsePattern,
		WholeWord:     opts.WholeWord,
		Include:       filters.Include,
		Exclude:       filters.Exclude,
	}
}

// Options returns the option flags carried by the request
func (r SearchRequest) Options() SearchOptions {
	return SearchOptions{CaseSensitive: r.CaseSensitive, WholeWord: r.WholeWord, UsePattern: r.UsePattern}
}

// Filters returns the path filters carried by the request
func (r SearchRequest) Filters() Filters {
	return Filters{Include: r.Include, Exclude: r.Exclude}
}

// ReplaceRequest is a batch replace across the collection
type ReplaceRequest struct {
	SearchRequest
	Replacement string `json:"replacement"`
}

// ReplaceResponse is the index's answer to a ReplaceRequest
type ReplaceResponse struct {
	Success      bool   `json:"success"`
	FilesUpdated int    `json:"files_updated"`
	Occurrences  int    `json:"occurrences"`
	Message      string `json:"message,omitempty"`
}

// Entity is a named item from the locally cached directory
type Entity struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
}

// Matches reports whether needle is contained in the ID or name, ignoring case
func (e Entity) Matches(needle string) bool {
	needle = strings.ToLower(needle)
	return strings.Contains(strings.ToLower(e.ID), needle) ||
		strings.Contains(strings.ToLower(e.Name), needle)
}

// NoticeKind classifies a user notice
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a transient message shown to the user
type Notice struct {
	Message  string
	Kind     NoticeKind
	Duration time.Duration
}

// ConfirmDialog describes a yes/no prompt
type ConfirmDialog struct {
	Title       string
	Message     string
	ConfirmText string
	CancelText  string
	Danger      bool
}
