package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"editgrep/internal/buffer"
	"editgrep/internal/domain"
	"editgrep/internal/ui/services/overlay"
)

// Document is the open buffer as the renderer sees it
type Document interface {
	Path() string
	LineCount() int
	ScrollTop() int
	Selection() domain.MatchSpan
	Highlight(i int) []buffer.Segment
}

// DocumentRenderer draws the visible lines of a buffer with their highlights
type DocumentRenderer struct {
	styles *Styles
}

// NewDocumentRenderer creates a new document renderer
func NewDocumentRenderer(styles *Styles) *DocumentRenderer {
	return &DocumentRenderer{styles: styles}
}

// classOrder ranks highlight classes; the first one present wins
var classOrder = []string{overlay.StyleActiveMatch, overlay.StyleMatch, overlay.StyleLineFlash}

func (d *DocumentRenderer) styleSegment(seg buffer.Segment) string {
	for _, class := range classOrder {
		for _, s := range seg.Styles {
			if s == class {
				return d.styles.ForClass(class).Render(seg.Text)
			}
		}
	}
	return seg.Text
}

// RenderLine renders line i with its highlight segments
func (d *DocumentRenderer) RenderLine(doc Document, i int) string {
	var b strings.Builder
	for _, seg := range doc.Highlight(i) {
		b.WriteString(d.styleSegment(seg))
	}
	return b.String()
}

// Render draws height lines starting at the document's scroll position
func (d *DocumentRenderer) Render(doc Document, height, width int) string {
	if doc == nil {
		return d.styles.Dim.Render("No file open. Press F to search the collection.")
	}
	if height <= 0 {
		height = 1
	}

	count := doc.LineCount()
	top := doc.ScrollTop()
	cursor := doc.Selection().From.Line
	gutter := len(fmt.Sprint(count))

	lines := make([]string, 0, height)
	for i := top; i < count && len(lines) < height; i++ {
		num := fmt.Sprintf("%*d ", gutter, i+1)
		if i == cursor {
			num = d.styles.CursorLine.Render(num)
		} else {
			num = d.styles.LineNumber.Render(num)
		}
		line := num + d.RenderLine(doc, i)
		if width > 0 {
			line = lipgloss.NewStyle().MaxWidth(width).Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < height {
		lines = append(lines, d.styles.Dim.Render("~"))
	}
	return strings.Join(lines, "\n")
}
