package search

import (
	"time"

	"editgrep/internal/domain"
	"editgrep/internal/query"
	"editgrep/internal/ui/services/overlay"
)

// State holds search state
type State struct {
	Raw     string
	Options domain.SearchOptions
	Query   *query.Compiled
	Status  domain.MatchCountState

	overlay *overlay.Overlay
	active  overlay.Mark // the single active-match decoration
}

// Settings tunes navigation feedback
type Settings struct {
	ScrollMarginPx int
	NoticeDuration time.Duration
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		ScrollMarginPx: 20,
		NoticeDuration: 2 * time.Second,
	}
}

// Notice texts
const (
	MsgWrapped      = "Search wrapped"
	MsgNoMatch      = "No match found"
	MsgInvalidRegex = "Invalid regular expression"
)
