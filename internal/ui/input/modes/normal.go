package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"editgrep/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyTab:
		return []types.Action{types.ToggleFocusAction{}}, true

	case tea.KeyCtrlS:
		if ctx.HasBuffer() {
			return []types.Action{types.SaveAction{}}, true
		}
		return nil, true

	case tea.KeyEnter:
		// Enter toggles a group header; on an entry it opens the file at that line
		if !ctx.ResultsFocused() {
			return nil, false
		}
		if ctx.IsOnGroup() {
			return []types.Action{types.ToggleGroupAction{}}, true
		}
		return []types.Action{types.OpenResultAction{}}, true
	}

	// Handle string keys
	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "/", "ctrl+f":
		if ctx.HasBuffer() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeFind}}, true
		}
		return nil, true

	case "r":
		if ctx.HasBuffer() {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeReplace}}, true
		}
		return nil, true

	case "n":
		if ctx.HasQuery() {
			return []types.Action{types.SearchNavigateAction{Direction: "next"}}, true
		}
		return nil, true // Consume the key even if no action

	case "N":
		if ctx.HasQuery() {
			return []types.Action{types.SearchNavigateAction{Direction: "prev"}}, true
		}
		return nil, true

	case "F", "ctrl+g":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeGlobal}}, true

	case "R":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeGlobalReplace}}, true

	case "z":
		if ctx.ResultsFocused() && ctx.HasResults() {
			return []types.Action{types.ToggleGroupAction{}}, true
		}
		return nil, false

	case "Z":
		if ctx.ResultsFocused() && ctx.HasResults() {
			return []types.Action{types.ExpandAllGroupsAction{Expanded: !ctx.IsOnGroup()}}, true
		}
		return nil, false

	case "u":
		if ctx.HasBuffer() {
			return []types.Action{types.UndoAction{}}, true
		}
		return nil, true

	case "e":
		if ctx.HasBuffer() || ctx.ResultsFocused() {
			return []types.Action{types.EditExternalAction{}}, true
		}
		return nil, true

	case "v":
		if ctx.HasBuffer() || ctx.ResultsFocused() {
			return []types.Action{types.ViewFileAction{}}, true
		}
		return nil, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top (within timeout)
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		// First g, wait for next key
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	default:
		// Any other key cancels the 'g' prefix
		m.lastKeyWasG = false
	}

	return nil, false
}
