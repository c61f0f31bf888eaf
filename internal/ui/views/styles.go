package views

import (
	"github.com/charmbracelet/lipgloss"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/overlay"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Path          lipgloss.Style
	Confirm       lipgloss.Style
	Dim           lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	LineNumber    lipgloss.Style
	CursorLine    lipgloss.Style
	Match         lipgloss.Style
	ActiveMatch   lipgloss.Style
	LineFlash     lipgloss.Style
	BarLabel      lipgloss.Style
	OptionOn      lipgloss.Style
	OptionOff     lipgloss.Style
	Counter       lipgloss.Style
	Group         lipgloss.Style
	SelectionBg   lipgloss.Style
	InfoBox       lipgloss.Style
	ConfirmBox    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Path:        lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Confirm:     lipgloss.NewStyle().Bold(true),
		Dim:         lipgloss.NewStyle().Faint(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(0, 1),
		Scroll:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		LineNumber:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		CursorLine:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Match:       lipgloss.NewStyle().Background(lipgloss.Color("58")).Foreground(lipgloss.Color("230")),
		ActiveMatch: lipgloss.NewStyle().Background(lipgloss.Color("214")).Foreground(lipgloss.Color("16")).Bold(true),
		LineFlash:   lipgloss.NewStyle().Background(lipgloss.Color("24")),
		BarLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		OptionOn:    lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("78")),
		OptionOff:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Counter:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Group:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			Width(60).
			BorderForeground(lipgloss.Color("241")),
		ConfirmBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("203")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// ForClass returns the style of a highlight class. Unknown classes render plain.
func (s *Styles) ForClass(class string) lipgloss.Style {
	switch class {
	case overlay.StyleActiveMatch:
		return s.ActiveMatch
	case overlay.StyleMatch:
		return s.Match
	case overlay.StyleLineFlash:
		return s.LineFlash
	default:
		return lipgloss.NewStyle()
	}
}

// ForNotice returns the style of a notice kind
func (s *Styles) ForNotice(kind domain.NoticeKind) lipgloss.Style {
	switch kind {
	case domain.NoticeError:
		return s.StatusError
	case domain.NoticeWarning:
		return s.StatusWarning
	case domain.NoticeSuccess:
		return s.StatusSuccess
	default:
		return s.StatusInfo
	}
}
