package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"editgrep/internal/ui/input/types"
)

// TextInputMode is a base for modes that accept text input. The text is kept
// between visits so a query survives closing the bar.
type TextInputMode struct {
	mode      types.Mode
	name      string
	prompt    string
	textInput *textinput.Model
}

func NewTextInputMode(mode types.Mode, name, prompt string, ti *textinput.Model) TextInputMode {
	return TextInputMode{
		mode:      mode,
		name:      name,
		prompt:    prompt,
		textInput: ti,
	}
}

func (m TextInputMode) Name() string {
	return m.name
}

// Prompt returns the label shown before the text box
func (m TextInputMode) Prompt() string {
	return m.prompt
}

func (m TextInputMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Focus()
		m.textInput.Prompt = "" // Prompt is handled in the UI layer
	}
	return nil
}

func (m TextInputMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
	}
	return nil
}

func (m TextInputMode) value() string {
	if m.textInput == nil {
		return ""
	}
	return m.textInput.Value()
}

// handleCommon covers the keys every text mode shares
func (m TextInputMode) handleCommon(msg tea.KeyMsg) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc":
		return []types.Action{
			types.CancelTextAction{Mode: m.mode},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "alt+c":
		return []types.Action{types.ToggleOptionAction{Option: "case"}}, true
	case "alt+w":
		return []types.Action{types.ToggleOptionAction{Option: "word"}}, true
	case "alt+r":
		return []types.Action{types.ToggleOptionAction{Option: "regex"}}, true
	}
	return nil, false
}

func (m TextInputMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if actions, ok := m.handleCommon(msg); ok {
		return actions, true
	}
	if msg.String() == "enter" {
		return []types.Action{
			types.SubmitTextAction{Text: m.value(), Mode: m.mode},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}
	// Returning false here means the input handler will process it
	return nil, false
}
