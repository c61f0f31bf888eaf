package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

type ToggleFocusAction struct{}

func (a ToggleFocusAction) Type() string { return "toggle_focus" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
	Mode Mode
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Search option toggles
type ToggleOptionAction struct {
	Option string // "case", "word", "regex"
}

func (a ToggleOptionAction) Type() string { return "toggle_option" }

// In-buffer search actions
type SearchNavigateAction struct {
	Direction string // "next" or "prev"
}

func (a SearchNavigateAction) Type() string { return "search_navigate" }

type ReplaceCurrentAction struct {
	Replacement string
}

func (a ReplaceCurrentAction) Type() string { return "replace_current" }

type ReplaceAllAction struct {
	Replacement string
}

func (a ReplaceAllAction) Type() string { return "replace_all" }

type UndoAction struct{}

func (a UndoAction) Type() string { return "undo" }

type SaveAction struct{}

func (a SaveAction) Type() string { return "save" }

// Cross-collection actions
type GlobalReplaceAction struct {
	Replacement string
}

func (a GlobalReplaceAction) Type() string { return "global_replace" }

type OpenResultAction struct{}

func (a OpenResultAction) Type() string { return "open_result" }

type ToggleGroupAction struct{}

func (a ToggleGroupAction) Type() string { return "toggle_group" }

type ExpandAllGroupsAction struct {
	Expanded bool
}

func (a ExpandAllGroupsAction) Type() string { return "expand_all_groups" }

type ConfirmAction struct {
	Accepted bool
}

func (a ConfirmAction) Type() string { return "confirm" }

// External program actions
type EditExternalAction struct{}

func (a EditExternalAction) Type() string { return "edit_external" }

type ViewFileAction struct{}

func (a ViewFileAction) Type() string { return "view_file" }

// Other actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
