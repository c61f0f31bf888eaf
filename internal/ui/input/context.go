package input

import (
	"editgrep/internal/ui/services/results"
	"editgrep/internal/ui/services/search"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Search  *search.Service
	Results *results.Service
	Focused bool // results pane has focus
}

// HasBuffer reports whether a file is open for local search
func (c *ModelContext) HasBuffer() bool {
	return c.Search != nil
}

// HasQuery reports whether the local query has matches to step through
func (c *ModelContext) HasQuery() bool {
	return c.Search != nil && c.Search.Query() != nil && !c.Search.Query().IsEmpty()
}

// ResultsFocused reports whether keys go to the cross-collection results
func (c *ModelContext) ResultsFocused() bool {
	return c.Focused && c.HasResults()
}

// HasResults reports whether there are result rows
func (c *ModelContext) HasResults() bool {
	return c.Results != nil && len(c.Results.Rows()) > 0
}

// IsOnGroup returns true if the results cursor is on a group header
func (c *ModelContext) IsOnGroup() bool {
	return c.Results != nil && c.Results.IsOnGroup()
}
