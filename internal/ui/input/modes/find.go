package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"editgrep/internal/ui/input/types"
)

// FindMode edits the in-buffer query. Typing re-highlights live.
type FindMode struct {
	TextInputMode
}

func NewFindMode(ti *textinput.Model) *FindMode {
	return &FindMode{
		TextInputMode: NewTextInputMode(types.ModeFind, "find", "Find: ", ti),
	}
}

func (m *FindMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if actions, ok := m.handleCommon(msg); ok {
		return actions, true
	}
	switch msg.String() {
	case "enter", "down", "ctrl+n":
		return []types.Action{types.SearchNavigateAction{Direction: "next"}}, true
	case "up", "ctrl+p":
		return []types.Action{types.SearchNavigateAction{Direction: "prev"}}, true
	case "tab":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeReplace}}, true
	}
	return nil, false
}

// ReplaceMode edits the replacement for the in-buffer query
type ReplaceMode struct {
	TextInputMode
}

func NewReplaceMode(ti *textinput.Model) *ReplaceMode {
	return &ReplaceMode{
		TextInputMode: NewTextInputMode(types.ModeReplace, "replace", "Replace: ", ti),
	}
}

func (m *ReplaceMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if actions, ok := m.handleCommon(msg); ok {
		return actions, true
	}
	switch msg.String() {
	case "enter":
		return []types.Action{types.ReplaceCurrentAction{Replacement: m.value()}}, true
	case "ctrl+a":
		return []types.Action{types.ReplaceAllAction{Replacement: m.value()}}, true
	case "down", "ctrl+n":
		return []types.Action{types.SearchNavigateAction{Direction: "next"}}, true
	case "up", "ctrl+p":
		return []types.Action{types.SearchNavigateAction{Direction: "prev"}}, true
	case "tab", "shift+tab":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFind}}, true
	}
	return nil, false
}

// GlobalMode edits the cross-collection query
type GlobalMode struct {
	TextInputMode
}

func NewGlobalMode(ti *textinput.Model) *GlobalMode {
	return &GlobalMode{
		TextInputMode: NewTextInputMode(types.ModeGlobal, "global", "Search files: ", ti),
	}
}

func (m *GlobalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if actions, ok := m.handleCommon(msg); ok {
		return actions, true
	}
	switch msg.String() {
	case "enter":
		return []types.Action{types.SubmitTextAction{Text: m.value(), Mode: types.ModeGlobal}}, true
	case "tab":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeGlobalReplace}}, true
	case "down":
		if ctx.HasResults() {
			return []types.Action{
				types.ChangeModeAction{Mode: types.ModeNormal},
				types.ToggleFocusAction{},
			}, true
		}
		return nil, true
	}
	return nil, false
}

// GlobalReplaceMode edits the replacement applied to every file
type GlobalReplaceMode struct {
	TextInputMode
}

func NewGlobalReplaceMode(ti *textinput.Model) *GlobalReplaceMode {
	return &GlobalReplaceMode{
		TextInputMode: NewTextInputMode(types.ModeGlobalReplace, "global-replace", "Replace in files: ", ti),
	}
}

func (m *GlobalReplaceMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if actions, ok := m.handleCommon(msg); ok {
		return actions, true
	}
	switch msg.String() {
	case "enter":
		return []types.Action{types.GlobalReplaceAction{Replacement: m.value()}}, true
	case "tab", "shift+tab":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeGlobal}}, true
	}
	return nil, false
}
