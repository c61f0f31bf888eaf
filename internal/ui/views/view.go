package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/results"
)

// Bar is one labelled text box of the find or global bar
type Bar struct {
	Label   string
	Input   string // rendered text input
	Focused bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int
	Root   string
	Mode   string

	Doc          Document
	FindBar      *Bar
	ReplaceBar   *Bar
	Options      domain.SearchOptions
	Counter      string
	GlobalBar    *Bar
	GlobalRepBar *Bar
	Filters      domain.Filters

	Results ResultsState

	Notice      *domain.Notice
	Confirm     *domain.ConfirmDialog
	ShowHelp    bool
	HelpContent string
}

// Renderer handles all view rendering
type Renderer struct {
	styles        *Styles
	docRender     *DocumentRenderer
	resultsRender *ResultsRenderer
	popupRender   *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:        styles,
		docRender:     NewDocumentRenderer(styles),
		resultsRender: NewResultsRenderer(styles),
		popupRender:   NewPopupRenderer(styles),
	}
}

// Styles returns the style set shared by the renderers
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Layout splits the screen height between the document and the results pane
func Layout(state ViewState) (docHeight, resultsHeight int) {
	height := state.Height
	if height <= 0 {
		height = 24 // Default terminal height
	}

	// title, notice and help lines
	used := 3
	for _, bar := range []*Bar{state.FindBar, state.ReplaceBar, state.GlobalBar, state.GlobalRepBar} {
		if bar != nil {
			used++
		}
	}
	avail := height - used
	if avail < 2 {
		avail = 2
	}

	if state.Results.State == nil || (!state.Results.Pending && state.Results.State.Status == results.StatusIdle && state.GlobalBar == nil) {
		return avail, 0
	}
	if state.Doc == nil {
		return 0, avail
	}
	resultsHeight = avail / 2
	return avail - resultsHeight, resultsHeight
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80 // Default terminal width
	}
	inner := width - 2 // Main padding

	var sections []string
	sections = append(sections, r.renderTitle(state, inner))

	docHeight, resultsHeight := Layout(state)
	if docHeight > 0 {
		sections = append(sections, r.docRender.Render(state.Doc, docHeight, inner))
	}
	if state.FindBar != nil {
		sections = append(sections, r.renderFindBar(state))
	}
	if state.ReplaceBar != nil {
		sections = append(sections, r.renderBar(state.ReplaceBar))
	}
	if resultsHeight > 0 {
		sections = append(sections, r.padTo(r.resultsRender.Render(state.Results, resultsHeight, inner), resultsHeight))
	}
	if state.GlobalBar != nil {
		sections = append(sections, r.renderGlobalBar(state))
	}
	if state.GlobalRepBar != nil {
		sections = append(sections, r.renderBar(state.GlobalRepBar))
	}

	sections = append(sections, r.renderNotice(state.Notice))
	sections = append(sections, r.styles.Help.Render("Press ? for help"))

	finalContent := r.styles.Main.MaxHeight(state.Height).Render(strings.Join(sections, "\n"))

	// Overlay popups on top of main content
	if state.Confirm != nil {
		return r.popupRender.RenderPopupOverlay(finalContent, r.popupRender.RenderConfirm(*state.Confirm), state.Height, width, r.styles.ConfirmBox)
	}
	if state.ShowHelp && state.HelpContent != "" {
		return r.popupRender.RenderPopupOverlay(finalContent, state.HelpContent, state.Height, width, r.styles.InfoBox)
	}
	return finalContent
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("editgrep")
	left := logo
	if state.Doc != nil {
		left = fmt.Sprintf("%s  %s", logo, r.styles.Path.Render(state.Doc.Path()))
	} else if state.Root != "" {
		left = fmt.Sprintf("%s  %s", logo, r.styles.Dim.Render(state.Root))
	}

	right := ""
	if state.Mode != "" && state.Mode != "normal" {
		right = r.styles.Dim.Render(fmt.Sprintf("[%s]", state.Mode))
	}

	// Calculate padding needed
	paddingWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if paddingWidth < 2 {
		paddingWidth = 2
	}
	if right == "" {
		return left
	}
	return left + strings.Repeat(" ", paddingWidth) + right
}

func (r *Renderer) renderBar(bar *Bar) string {
	label := r.styles.BarLabel.Render(bar.Label)
	if !bar.Focused {
		label = r.styles.Dim.Render(bar.Label)
	}
	return label + bar.Input
}

func (r *Renderer) option(name string, on bool) string {
	if on {
		return r.styles.OptionOn.Render(name)
	}
	return r.styles.OptionOff.Render(name)
}

// renderOptions shows the three query toggles
func (r *Renderer) renderOptions(opts domain.SearchOptions) string {
	return strings.Join([]string{
		r.option("Aa", opts.CaseSensitive),
		r.option("W", opts.WholeWord),
		r.option(".*", opts.UsePattern),
	}, " ")
}

func (r *Renderer) renderFindBar(state ViewState) string {
	line := r.renderBar(state.FindBar) + "  " + r.renderOptions(state.Options)
	if state.Counter != "" {
		line += "  " + r.styles.Counter.Render(state.Counter)
	}
	return line
}

func (r *Renderer) renderGlobalBar(state ViewState) string {
	line := r.renderBar(state.GlobalBar) + "  " + r.renderOptions(state.Options)
	var filters []string
	if state.Filters.Include != "" {
		filters = append(filters, "include: "+state.Filters.Include)
	}
	if state.Filters.Exclude != "" {
		filters = append(filters, "exclude: "+state.Filters.Exclude)
	}
	if len(filters) > 0 {
		line += "  " + r.styles.Dim.Render(strings.Join(filters, " "))
	}
	return line
}

func (r *Renderer) renderNotice(n *domain.Notice) string {
	if n == nil || n.Message == "" {
		return ""
	}
	return r.styles.ForNotice(n.Kind).Render(n.Message)
}

// padTo pads s with empty lines up to height lines
func (r *Renderer) padTo(s string, height int) string {
	if n := strings.Count(s, "\n") + 1; n < height {
		s += strings.Repeat("\n", height-n)
	}
	return s
}
