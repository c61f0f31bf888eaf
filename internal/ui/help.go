package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Navigation", [][2]string{
		{"↑/↓, j/k", "Move cursor up/down"},
		{"PgUp/PgDn", "Page up/down"},
		{"gg/G", "Go to top/bottom"},
		{"Tab", "Switch between file and results"},
	}},
	{"Find in File", [][2]string{
		{"/, Ctrl+F", "Find in the open file"},
		{"Enter, ↓", "Next match"},
		{"↑", "Previous match"},
		{"n/N", "Next/previous match"},
		{"r", "Replace in the open file"},
		{"Enter", "Replace current match (in replace box)"},
		{"Ctrl+A", "Replace all matches (in replace box)"},
		{"u", "Undo"},
		{"Ctrl+S", "Save file"},
	}},
	{"Search Files", [][2]string{
		{"F, Ctrl+G", "Search all files"},
		{"R", "Replace in all files"},
		{"Enter", "Open result or toggle file group"},
		{"z/Z", "Toggle group / toggle all groups"},
	}},
	{"Options", [][2]string{
		{"Alt+C", "Match case"},
		{"Alt+W", "Whole word"},
		{"Alt+R", "Regular expression"},
	}},
	{"Other", [][2]string{
		{"e", "Open in $EDITOR"},
		{"v", "View file in pager"},
		{"Esc", "Close the find box"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}},
}

// RenderHelpContentPlain generates help content with colors for pager
func (r *HelpRenderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	// Title
	help.WriteString(titleStyle.Render("editgrep Help"))
	help.WriteString("\n")

	for i, section := range helpSections {
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, k := range section.keys {
			help.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(k[0]), descStyle.Render(k[1])))
		}
		if i < len(helpSections)-1 {
			help.WriteString("\n")
		}
	}

	return strings.TrimRight(help.String(), "\n")
}

// renderHelpContent renders the help window for the popup fallback
func (r *HelpRenderer) renderHelpContent(height int, scrollOffset int) string {
	content := r.RenderHelpContentPlain()
	lines := strings.Split(content, "\n")
	totalLines := len(lines)

	// Calculate visible window (account for popup border and padding)
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}

	if totalLines <= visibleHeight {
		return content
	}

	// Ensure scroll offset is valid
	maxOffset := totalLines - visibleHeight
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	// Extract visible lines
	endLine := scrollOffset + visibleHeight
	visibleLines := append([]string(nil), lines[scrollOffset:endLine]...)

	// Add scroll indicators
	more := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if scrollOffset > 0 {
		visibleLines[0] = more.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = more.Render("↓ (more below)")
	}

	return strings.Join(visibleLines, "\n")
}
