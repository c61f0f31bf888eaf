package ui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/global"
)

// localNotifier sets the notice directly. The in-buffer search service runs
// inside Update, where sending to the program would block.
type localNotifier struct {
	m *Model
}

func (n localNotifier) Notify(message string, kind domain.NoticeKind, d time.Duration) {
	n.m.setNotice(domain.Notice{Message: message, Kind: kind, Duration: d})
}

// programHost bridges the cross-collection coordinators, which run inside
// tea.Cmd goroutines, back to the update loop.
type programHost struct {
	send func(tea.Msg)

	mu    sync.Mutex
	query string
}

func (h *programHost) setQuery(q string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.query = q
}

// CurrentQuery returns what the global search box holds right now
func (h *programHost) CurrentQuery() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.query
}

func (h *programHost) RenderResults(v global.View) {
	h.send(resultsMsg{view: v})
}

func (h *programHost) RenderEmpty() {
	h.send(emptyResultsMsg{})
}

func (h *programHost) RenderError(msg string) {
	h.send(resultsErrorMsg{message: msg})
}

func (h *programHost) Notify(message string, kind domain.NoticeKind, d time.Duration) {
	h.send(noticeMsg{notice: domain.Notice{Message: message, Kind: kind, Duration: d}})
}

// Confirm shows the dialog and blocks until the user answers or ctx ends
func (h *programHost) Confirm(ctx context.Context, dialog domain.ConfirmDialog) (bool, error) {
	reply := make(chan bool, 1)
	h.send(confirmRequestMsg{dialog: dialog, reply: reply})
	select {
	case ok := <-reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
