package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"editgrep/internal/ui/input/modes"
	"editgrep/internal/ui/input/types"
)

// Handler routes key presses to the active mode. Every text mode owns its
// own text input, so the find query and replacement survive mode switches.
type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	inputs      map[types.Mode]*textinput.Model
}

func New() *Handler {
	h := &Handler{
		currentMode: types.ModeNormal,
		modes:       make(map[types.Mode]types.ModeHandler),
		inputs:      make(map[types.Mode]*textinput.Model),
	}

	for _, mode := range []types.Mode{types.ModeFind, types.ModeReplace, types.ModeGlobal, types.ModeGlobalReplace} {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 512
		h.inputs[mode] = &ti
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeFind] = modes.NewFindMode(h.inputs[types.ModeFind])
	h.modes[types.ModeReplace] = modes.NewReplaceMode(h.inputs[types.ModeReplace])
	h.modes[types.ModeGlobal] = modes.NewGlobalMode(h.inputs[types.ModeGlobal])
	h.modes[types.ModeGlobalReplace] = modes.NewGlobalReplaceMode(h.inputs[types.ModeGlobalReplace])
	h.modes[types.ModeConfirm] = modes.NewConfirmMode()

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// If not consumed and we're in text mode, we'll handle it below
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}
		allActions = append(allActions, h.switchMode(changeMode.Mode, ctx)...)
		allActions = append(allActions, action)
		if h.isTextMode(h.currentMode) {
			cmd = textinput.Blink
		}
	}

	// Keys the text mode didn't claim go to its text input
	if h.isTextMode(h.currentMode) && !consumed {
		ti := h.inputs[h.currentMode]
		before := ti.Value()
		var textCmd tea.Cmd
		*ti, textCmd = ti.Update(msg)
		cmd = textCmd
		if ti.Value() != before {
			allActions = append(allActions, types.UpdateTextAction{Text: ti.Value(), Mode: h.currentMode})
		}
	}

	return allActions, cmd
}

func (h *Handler) switchMode(mode types.Mode, ctx types.Context) []types.Action {
	var actions []types.Action
	if current := h.modes[h.currentMode]; current != nil {
		actions = append(actions, current.Exit(ctx)...)
	}
	h.currentMode = mode
	if next := h.modes[h.currentMode]; next != nil {
		actions = append(actions, next.Enter(ctx)...)
	}
	return actions
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	_, ok := h.inputs[mode]
	return ok
}

// CurrentMode returns the active input mode
func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// ModeName returns the display name of the active mode
func (h *Handler) ModeName() string {
	if handler := h.modes[h.currentMode]; handler != nil {
		return handler.Name()
	}
	return ""
}

// TextInput returns the text input owned by mode, or nil
func (h *Handler) TextInput(mode types.Mode) *textinput.Model {
	if h == nil {
		return nil
	}
	return h.inputs[mode]
}

// Value returns the current text of mode's input
func (h *Handler) Value(mode types.Mode) string {
	if ti := h.TextInput(mode); ti != nil {
		return ti.Value()
	}
	return ""
}

// SetValue replaces the text of mode's input
func (h *Handler) SetValue(mode types.Mode, value string) {
	if ti := h.TextInput(mode); ti != nil {
		ti.SetValue(value)
	}
}

// ChangeMode changes the current input mode from outside a key press
func (h *Handler) ChangeMode(mode types.Mode, ctx types.Context) {
	h.switchMode(mode, ctx)
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if ti, ok := h.inputs[h.currentMode]; ok {
		var cmd tea.Cmd
		*ti, cmd = ti.Update(msg)
		return cmd
	}
	return nil
}

// Reset returns to normal mode and blurs every input
func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	for _, ti := range h.inputs {
		ti.Blur()
	}
}
