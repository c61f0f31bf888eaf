package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"editgrep/internal/ui/input/types"
)

// ConfirmMode answers a pending confirmation dialog
type ConfirmMode struct{}

func NewConfirmMode() *ConfirmMode {
	return &ConfirmMode{}
}

func (m *ConfirmMode) Name() string {
	return "confirm"
}

func (m *ConfirmMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *ConfirmMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{
			types.ConfirmAction{Accepted: false},
			types.QuitAction{Force: true},
		}, true
	case "y", "Y", "enter":
		return []types.Action{
			types.ConfirmAction{Accepted: true},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	case "n", "N", "esc":
		return []types.Action{
			types.ConfirmAction{Accepted: false},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	// swallow everything else while the dialog is up
	return nil, true
}
