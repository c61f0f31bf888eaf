package ui

import (
	"time"

	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
	"editgrep/internal/ui/services/global"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// tickMsg is sent on a timer to expire notices and marks
type tickMsg time.Time

// resultsMsg carries a fresh cross-collection result view
type resultsMsg struct {
	view global.View
}

// emptyResultsMsg clears the results pane
type emptyResultsMsg struct{}

// resultsErrorMsg replaces the results pane with an error
type resultsErrorMsg struct {
	message string
}

// noticeMsg shows a notice raised off the update loop
type noticeMsg struct {
	notice domain.Notice
}

// confirmRequestMsg asks the user a yes/no question; the answer goes to reply
type confirmRequestMsg struct {
	dialog domain.ConfirmDialog
	reply  chan<- bool
}

// globalSearchDoneMsg marks the end of one cross-collection search
type globalSearchDoneMsg struct{}

// globalReplaceDoneMsg marks the end of a batch replace
type globalReplaceDoneMsg struct {
	err error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// filePagerMsg contains the result of paging a file
type filePagerMsg struct {
	path string
	err  error
}

// editorExitMsg is sent when the external editor returns
type editorExitMsg struct {
	path string
	err  error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
