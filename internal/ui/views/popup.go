package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"editgrep/internal/domain"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderConfirm renders a yes/no dialog
func (pr *PopupRenderer) RenderConfirm(d domain.ConfirmDialog) string {
	var b strings.Builder
	title := pr.styles.Confirm.Render(d.Title)
	if d.Danger {
		title = pr.styles.StatusError.Bold(true).Render(d.Title)
	}
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(56).Render(d.Message))
	b.WriteString("\n\n")
	b.WriteString(pr.styles.StatusSuccess.Render("[y] " + d.ConfirmText))
	b.WriteString("   ")
	b.WriteString(pr.styles.Dim.Render("[n] " + d.CancelText))
	return b.String()
}

// RenderPopupOverlay renders a popup centered on top of main content. The
// content behind it is greyed out.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	// Render the popup with its style without forcing width/height – keep it tight
	styledPopup := popupStyle.Render(popupContent)
	if width <= 0 || height <= 0 {
		return lipgloss.JoinVertical(lipgloss.Left, desaturateANSI(mainContent), styledPopup)
	}

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	x := (width - modalW) / 2
	y := (height - modalH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	base := strings.Split(desaturateANSI(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	for i, popupLine := range strings.Split(styledPopup, "\n") {
		row := y + i
		if row >= len(base) {
			break
		}
		base[row] = splice(base[row], popupLine, x, modalW)
	}
	return strings.Join(base, "\n")
}

// splice writes over into line at cell x, covering w cells
func splice(line, over string, x, w int) string {
	if gap := x - ansi.StringWidth(line); gap > 0 {
		line += strings.Repeat(" ", gap)
	}
	left := ansi.Truncate(line, x, "")
	right := ansi.TruncateLeft(line, x+w, "")
	return left + over + right
}

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	gray := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range lines {
		lines[i] = gray.Render(line)
	}
	return strings.Join(lines, "\n")
}

