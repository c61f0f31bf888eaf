package global

import (
	"time"

	"editgrep/internal/domain"
)

// ResultSet is the last successful, non-stale cross-collection search
type ResultSet struct {
	Query   string
	Options domain.SearchOptions
	Filters domain.Filters
	Results []domain.GlobalSearchResult
}

// Empty reports whether there is nothing to replace
func (r ResultSet) Empty() bool { return len(r.Results) == 0 }

// Entry is one matching line inside a file group
type Entry struct {
	Line    int
	Content string
	Matches []domain.LineMatch
}

// FileGroup holds the matching lines of one file
type FileGroup struct {
	Path    string
	Entries []Entry
}

// View is what the renderer receives for a completed search
type View struct {
	Query    string
	Groups   []FileGroup
	Entities []domain.Entity
	Total    int
}

// Settings tunes the coordinators
type Settings struct {
	MinQueryLength    int
	EntityLimit       int
	HighlightDuration time.Duration
	NoticeDuration    time.Duration
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		MinQueryLength:    2,
		EntityLimit:       50,
		HighlightDuration: 3 * time.Second,
		NoticeDuration:    2 * time.Second,
	}
}

// Confirm dialog texts
const (
	ConfirmTitle   = "Replace in files"
	ConfirmReplace = "Replace All"
	ConfirmCancel  = "Cancel"
)
