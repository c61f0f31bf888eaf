package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/global"
	"editgrep/internal/ui/services/results"
)

// ResultsState is the results pane as the renderer sees it
type ResultsState struct {
	State    *results.State
	Rows     []results.Row
	Cursor   int
	Offset   int
	Focused  bool
	Pending  bool // a search is in flight
	Expanded func(key string) bool
}

// ResultsRenderer draws grouped cross-collection results
type ResultsRenderer struct {
	styles *Styles
}

// NewResultsRenderer creates a new results renderer
func NewResultsRenderer(styles *Styles) *ResultsRenderer {
	return &ResultsRenderer{styles: styles}
}

// RenderGroupHeader renders a file or entity header
func (g *ResultsRenderer) RenderGroupHeader(name string, count int, isExpanded, isSelected bool, width int) string {
	arrow := "▶"
	if isExpanded {
		arrow = "▼"
	}
	line := fmt.Sprintf("%s %s (%d)", arrow, g.styles.Group.Render(name), count)
	if isSelected {
		return g.selected(line, width)
	}
	return line
}

// RenderEntry renders one matching line with its matches highlighted
func (g *ResultsRenderer) RenderEntry(e global.Entry, isSelected bool, width int) string {
	line := fmt.Sprintf("  %s %s", g.styles.LineNumber.Render(fmt.Sprintf("%4d", e.Line)), g.highlightMatches(e.Content, e.Matches))
	if width > 0 {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	if isSelected {
		return g.selected(line, width)
	}
	return line
}

// RenderEntity renders a matching entity
func (g *ResultsRenderer) RenderEntity(e domain.Entity, isSelected bool, width int) string {
	line := fmt.Sprintf("  %s %s", e.ID, g.styles.Dim.Render(e.Name))
	if isSelected {
		return g.selected(line, width)
	}
	return line
}

func (g *ResultsRenderer) selected(line string, width int) string {
	// Pad the line to full width
	if width > 0 {
		if lineLen := lipgloss.Width(line); lineLen < width {
			line += strings.Repeat(" ", width-lineLen)
		}
	}
	return g.styles.SelectionBg.Render(line)
}

// highlightMatches styles the match column ranges of content
func (g *ResultsRenderer) highlightMatches(content string, matches []domain.LineMatch) string {
	var b strings.Builder
	pos := 0
	for _, m := range matches {
		if m.Start < pos || m.End > len(content) || m.End <= m.Start {
			continue
		}
		b.WriteString(content[pos:m.Start])
		b.WriteString(g.styles.Match.Render(content[m.Start:m.End]))
		pos = m.End
	}
	b.WriteString(content[pos:])
	return b.String()
}

// Render draws the results pane in at most height lines
func (g *ResultsRenderer) Render(rs ResultsState, height, width int) string {
	if rs.State == nil {
		return ""
	}
	switch rs.State.Status {
	case results.StatusIdle:
		if rs.Pending {
			return g.styles.Dim.Render("Searching...")
		}
		return ""
	case results.StatusEmpty:
		return g.styles.Dim.Render("No results")
	case results.StatusError:
		return g.styles.StatusError.Render(rs.State.Error)
	}

	view := rs.State.View
	summary := g.styles.Dim.Render(fmt.Sprintf("%d results in %d files for %q", view.Total, len(view.Groups), view.Query))
	lines := []string{summary}

	effectiveHeight := height - 1
	needsTopIndicator := rs.Offset > 0
	needsBottomIndicator := len(rs.Rows)-rs.Offset > effectiveHeight
	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}

	if needsTopIndicator {
		lines = append(lines, g.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", rs.Offset)))
	}
	end := rs.Offset
	for i := rs.Offset; i < len(rs.Rows) && i-rs.Offset < effectiveHeight; i++ {
		lines = append(lines, g.renderRow(rs, i, width))
		end = i + 1
	}
	if needsBottomIndicator {
		lines = append(lines, g.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", len(rs.Rows)-end)))
	}
	return strings.Join(lines, "\n")
}

func (g *ResultsRenderer) renderRow(rs ResultsState, i, width int) string {
	row := rs.Rows[i]
	isSelected := rs.Focused && i == rs.Cursor
	view := rs.State.View
	expanded := func(key string) bool {
		if rs.Expanded == nil {
			return true
		}
		return rs.Expanded(key)
	}

	switch row.Kind {
	case results.RowGroup:
		grp := view.Groups[row.Group]
		return g.RenderGroupHeader(grp.Path, len(grp.Entries), expanded(grp.Path), isSelected, width)
	case results.RowEntry:
		return g.RenderEntry(view.Groups[row.Group].Entries[row.Entry], isSelected, width)
	case results.RowEntitiesHeader:
		return g.RenderGroupHeader("Entities", len(view.Entities), expanded(results.EntitiesGroup), isSelected, width)
	case results.RowEntity:
		return g.RenderEntity(view.Entities[row.Entry], isSelected, width)
	}
	return ""
}
