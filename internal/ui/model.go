package ui

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"editgrep/internal/buffer"
	"editgrep/internal/config"
	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
	"editgrep/internal/ui/coordinator"
	"editgrep/internal/ui/input"
	inputtypes "editgrep/internal/ui/input/types"
	"editgrep/internal/ui/services/navigation"
	"editgrep/internal/ui/services/results"
	"editgrep/internal/ui/services/search"
	"editgrep/internal/ui/views"
)

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	coord  *coordinator.Coordinator

	// UI-specific state
	width       int
	height      int
	inPagerMode bool // tracks if we're currently in pager mode

	// Handlers
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	results      *results.Service
	host         *programHost
	pager        *PagerOps
	program      *tea.Program

	// In-buffer search, bound to the active buffer
	search    *search.Service
	searchBuf *buffer.Buffer

	options        domain.SearchOptions
	filters        domain.Filters
	findOpen       bool // find bar visible
	globalOpen     bool // global search bar visible
	resultsFocused bool
	searching      int // global searches in flight

	notice      *domain.Notice
	noticeUntil time.Time
	confirm     *confirmRequestMsg

	showHelp   bool
	helpScroll int
}

// NewModel creates a new UI model
func NewModel(cfg *config.Config, coord *coordinator.Coordinator) *Model {
	m := &Model{
		bus:          coord.Bus(),
		config:       cfg,
		coord:        coord,
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(),
		inputHandler: input.New(),
		results:      results.NewService(),
		host:         &programHost{send: func(tea.Msg) {}},
		pager:        NewPagerOps(),
		options:      coord.Options,
		filters:      coord.Filters,
	}
	coord.Attach(m.host)

	if b := coord.Workspace.Active(); b != nil {
		m.bindBuffer(b)
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.host.send = p.Send
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewports()
		return m, nil

	case tea.KeyMsg:
		// Help popup swallows keys while open
		if m.showHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.showHelp = false
				m.helpScroll = 0
			case "up", "k":
				if m.helpScroll > 0 {
					m.helpScroll--
				}
			case "down", "j":
				m.helpScroll++
			}
			return m, nil
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.inputContext())

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		m.updateViewports()
		return m, tea.Batch(cmds...)
	}

	if model, cmd, ok := m.handleNonKeyboardMsg(msg); ok {
		return model, cmd
	}
	// Cursor blink and other text input messages
	return m, m.inputHandler.Update(msg)
}

func (m *Model) inputContext() *input.ModelContext {
	return &input.ModelContext{
		Search:  m.search,
		Results: m.results,
		Focused: m.resultsFocused,
	}
}

// bindBuffer points the in-buffer search at b, carrying the open query over
func (m *Model) bindBuffer(b *buffer.Buffer) {
	if b == nil || b == m.searchBuf {
		return
	}
	if m.search != nil {
		m.search.Close()
	}
	m.searchBuf = b
	m.search = m.coord.NewLocalSearch(b, localNotifier{m: m})
	m.updateViewports()
	if m.findOpen {
		m.search.SetQuery(m.inputHandler.Value(inputtypes.ModeFind), m.options)
	}
}

func (m *Model) updateViewports() {
	docHeight, resultsHeight := views.Layout(m.viewState())
	if m.searchBuf != nil {
		m.searchBuf.SetViewport(docHeight, m.coord.LineHeightPx)
	}
	// summary line and both scroll indicators
	rows := resultsHeight - 3
	if rows < 1 {
		rows = 1
	}
	m.results.SetViewportHeight(rows)
}

// setNotice shows n until its duration passes
func (m *Model) setNotice(n domain.Notice) {
	d := n.Duration
	if d <= 0 {
		d = m.coord.Search.NoticeDuration
	}
	m.notice = &n
	m.noticeUntil = time.Now().Add(d)
}

// runGlobalSearch searches the collection off the update loop
func (m *Model) runGlobalSearch(q string) tea.Cmd {
	opts, filters := m.options, m.filters
	m.searching++
	global := m.coord.Global
	return func() tea.Msg {
		global.Search(context.Background(), q, opts, filters)
		return globalSearchDoneMsg{}
	}
}

// refreshLocal re-reads open buffers from disk and recounts matches
func (m *Model) refreshLocal() {
	if err := m.coord.Workspace.Refresh(context.Background()); err != nil {
		log.Printf("Workspace refresh failed: %v", err)
	}
	if m.search != nil {
		m.search.Refresh()
	}
}

// target returns the file the external programs act on and the line to show
func (m *Model) target() (string, int, bool) {
	if m.resultsFocused {
		if path, line, ok := m.results.Target(); ok {
			return path, line, true
		}
		return "", 0, false
	}
	if m.searchBuf == nil {
		return "", 0, false
	}
	return m.searchBuf.Path(), m.searchBuf.Selection().From.Line + 1, true
}

func (m *Model) absPath(rel string) string {
	return filepath.Join(m.coord.Index.Root(), filepath.FromSlash(rel))
}

// moveCursor moves the buffer cursor by direction and scrolls to it
func (m *Model) moveCursor(direction string) {
	b := m.searchBuf
	if b == nil {
		return
	}
	docHeight, _ := views.Layout(m.viewState())
	if docHeight < 1 {
		docHeight = 1
	}

	line := b.Selection().From.Line
	switch direction {
	case "up":
		line--
	case "down":
		line++
	case "pageup":
		line -= docHeight
	case "pagedown":
		line += docHeight
	case "home":
		line = 0
	case "end":
		line = b.LineCount() - 1
	}
	if line >= b.LineCount() {
		line = b.LineCount() - 1
	}
	if line < 0 {
		line = 0
	}

	at := domain.Position{Line: line}
	b.SetCursor(at)
	b.ScrollIntoView(domain.MatchSpan{From: at, To: at}, 0)
}

// processAction handles an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.ChangeModeAction:
		switch a.Mode {
		case inputtypes.ModeFind, inputtypes.ModeReplace:
			if !m.findOpen && m.search != nil {
				m.findOpen = true
				m.search.SetQuery(m.inputHandler.Value(inputtypes.ModeFind), m.options)
			}
		case inputtypes.ModeGlobal, inputtypes.ModeGlobalReplace:
			m.globalOpen = true
			m.resultsFocused = false
		}
		return nil

	case inputtypes.UpdateTextAction:
		switch a.Mode {
		case inputtypes.ModeFind:
			if m.search != nil {
				m.search.SetQuery(a.Text, m.options)
			}
		case inputtypes.ModeGlobal:
			m.host.setQuery(a.Text)
			if len(a.Text) < m.coord.GlobalConfig.MinQueryLength {
				m.results.SetEmpty()
				return nil
			}
			return m.runGlobalSearch(a.Text)
		}
		return nil

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeGlobal {
			m.host.setQuery(a.Text)
			return m.runGlobalSearch(a.Text)
		}
		return nil

	case inputtypes.CancelTextAction:
		switch a.Mode {
		case inputtypes.ModeFind, inputtypes.ModeReplace:
			m.findOpen = false
			if m.search != nil {
				m.search.Close()
			}
		case inputtypes.ModeGlobal, inputtypes.ModeGlobalReplace:
			m.globalOpen = false
		}
		return nil

	case inputtypes.SearchNavigateAction:
		if m.search == nil {
			return nil
		}
		if a.Direction == "prev" {
			m.search.FindPrevious()
		} else {
			m.search.FindNext()
		}
		return nil

	case inputtypes.ToggleOptionAction:
		switch a.Option {
		case "case":
			m.options.CaseSensitive = !m.options.CaseSensitive
		case "word":
			m.options.WholeWord = !m.options.WholeWord
		case "regex":
			m.options.UsePattern = !m.options.UsePattern
		}
		if m.findOpen && m.search != nil {
			m.search.SetQuery(m.inputHandler.Value(inputtypes.ModeFind), m.options)
		}
		if m.globalOpen {
			if q := m.host.CurrentQuery(); len(q) >= m.coord.GlobalConfig.MinQueryLength {
				return m.runGlobalSearch(q)
			}
		}
		return nil

	case inputtypes.ReplaceCurrentAction:
		if m.search != nil {
			m.search.ReplaceCurrent(a.Replacement)
		}
		return nil

	case inputtypes.ReplaceAllAction:
		if m.search != nil {
			m.search.ReplaceAll(a.Replacement)
		}
		return nil

	case inputtypes.GlobalReplaceAction:
		q := m.inputHandler.Value(inputtypes.ModeGlobal)
		last := m.coord.Global.LastResults()
		if q == "" || last.Empty() {
			m.setNotice(domain.Notice{Message: "Search files first", Kind: domain.NoticeInfo})
			return nil
		}
		replacer := m.coord.Replacer
		replacement := a.Replacement
		return func() tea.Msg {
			return globalReplaceDoneMsg{err: replacer.Replace(context.Background(), q, replacement, last)}
		}

	case inputtypes.ConfirmAction:
		m.answerConfirm(a.Accepted)
		return nil

	case inputtypes.OpenResultAction:
		return m.openResult()

	case inputtypes.ToggleGroupAction:
		m.results.ToggleCurrent()
		return nil

	case inputtypes.ExpandAllGroupsAction:
		m.results.SetAllExpanded(a.Expanded)
		return nil

	case inputtypes.ToggleFocusAction:
		if len(m.results.Rows()) > 0 {
			m.resultsFocused = !m.resultsFocused
		} else {
			m.resultsFocused = false
		}
		return nil

	case inputtypes.NavigateAction:
		if m.resultsFocused && len(m.results.Rows()) > 0 {
			m.results.Navigate(navigation.Direction(a.Direction))
			return nil
		}
		m.moveCursor(a.Direction)
		return nil

	case inputtypes.UndoAction:
		if m.searchBuf != nil && m.searchBuf.Undo() {
			m.search.Refresh()
		}
		return nil

	case inputtypes.SaveAction:
		if m.searchBuf == nil {
			return nil
		}
		if err := m.coord.Workspace.Save(m.searchBuf.Path()); err != nil {
			m.setNotice(domain.Notice{Message: fmt.Sprintf("Save failed: %v", err), Kind: domain.NoticeError})
			return nil
		}
		m.setNotice(domain.Notice{Message: "Saved " + m.searchBuf.Path(), Kind: domain.NoticeSuccess})
		return nil

	case inputtypes.EditExternalAction:
		path, line, ok := m.target()
		if !ok || !m.pager.Available() {
			return nil
		}
		pager, abs := m.pager, m.absPath(path)
		return tea.Sequence(
			func() tea.Msg { return pauseRenderingMsg{} },
			func() tea.Msg {
				return editorExitMsg{path: path, err: pager.RunEditor(abs, line)}
			},
			func() tea.Msg { return resumeRenderingMsg{} },
		)

	case inputtypes.ViewFileAction:
		path, _, ok := m.target()
		if !ok || !m.pager.Available() {
			return nil
		}
		pager, abs := m.pager, m.absPath(path)
		return tea.Sequence(
			func() tea.Msg { return pauseRenderingMsg{} },
			func() tea.Msg {
				return filePagerMsg{path: path, err: pager.ShowFileInPager(abs)}
			},
			func() tea.Msg { return resumeRenderingMsg{} },
		)

	case inputtypes.ToggleHelpAction:
		if !m.pager.Available() {
			m.showHelp = !m.showHelp
			m.helpScroll = 0
			return nil
		}
		return m.fetchHelpPager(m.helpRenderer.RenderHelpContentPlain())

	case inputtypes.QuitAction:
		m.answerConfirm(false)
		if m.search != nil {
			m.search.Close()
		}
		return tea.Quit
	}
	return nil
}

// openResult opens the selected result line, or searches the selected entity
func (m *Model) openResult() tea.Cmd {
	if path, line, ok := m.results.Target(); ok {
		if err := m.coord.Global.Open(path, line); err != nil {
			log.Printf("Open result failed: %v", err)
			m.setNotice(domain.Notice{Message: err.Error(), Kind: domain.NoticeError})
			return nil
		}
		m.bindBuffer(m.coord.Workspace.Active())
		m.resultsFocused = false
		return nil
	}
	if e, ok := m.results.Entity(); ok {
		m.inputHandler.SetValue(inputtypes.ModeGlobal, e.ID)
		m.host.setQuery(e.ID)
		return m.runGlobalSearch(e.ID)
	}
	return nil
}

// answerConfirm replies to a pending confirm dialog
func (m *Model) answerConfirm(ok bool) {
	if m.confirm == nil {
		return
	}
	m.confirm.reply <- ok
	m.confirm = nil
}

func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	pager := m.pager
	return tea.Sequence(
		func() tea.Msg { return pauseRenderingMsg{} },
		func() tea.Msg {
			return helpPagerMsg{err: pager.ShowHelpInPager(helpContent)}
		},
		func() tea.Msg { return resumeRenderingMsg{} },
	)
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case EventMsg:
		if _, ok := msg.Event.(domain.CollectionChangedEvent); ok && m.search != nil {
			m.search.Refresh()
		}
		return m, nil, true

	case tickMsg:
		if m.notice != nil && time.Now().After(m.noticeUntil) {
			m.notice = nil
		}
		// Don't continue tick loop if we're in pager mode
		if m.inPagerMode {
			return m, nil, true
		}
		return m, tick(), true

	case resultsMsg:
		m.results.SetView(msg.view)
		return m, nil, true

	case emptyResultsMsg:
		m.results.SetEmpty()
		m.resultsFocused = false
		return m, nil, true

	case resultsErrorMsg:
		m.results.SetError(msg.message)
		m.resultsFocused = false
		return m, nil, true

	case noticeMsg:
		m.setNotice(msg.notice)
		return m, nil, true

	case confirmRequestMsg:
		// A second request while one is open is declined
		if m.confirm != nil {
			msg.reply <- false
			return m, nil, true
		}
		m.confirm = &msg
		m.inputHandler.ChangeMode(inputtypes.ModeConfirm, m.inputContext())
		return m, nil, true

	case globalSearchDoneMsg:
		if m.searching > 0 {
			m.searching--
		}
		return m, nil, true

	case globalReplaceDoneMsg:
		if msg.err != nil {
			log.Printf("Global replace failed: %v", msg.err)
		}
		if m.search != nil {
			m.search.Refresh()
		}
		return m, nil, true

	case helpPagerMsg:
		if msg.err != nil {
			// Pager failed, fall back to the popup
			log.Printf("Help pager failed: %v", msg.err)
			m.showHelp = true
		}
		return m, nil, true

	case filePagerMsg:
		if msg.err != nil {
			log.Printf("Pager failed for %s: %v", msg.path, msg.err)
			m.setNotice(domain.Notice{Message: fmt.Sprintf("Failed to view %s", msg.path), Kind: domain.NoticeError})
		}
		return m, nil, true

	case editorExitMsg:
		if msg.err != nil {
			log.Printf("Editor failed for %s: %v", msg.path, msg.err)
			m.setNotice(domain.Notice{Message: fmt.Sprintf("Failed to run editor: %v", msg.err), Kind: domain.NoticeError})
		}
		m.refreshLocal()
		return m, nil, true

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil, true

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, tick(), true
	}
	return m, nil, false
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	return m.renderer.Render(m.viewState())
}

func (m *Model) bar(mode inputtypes.Mode, label string) *views.Bar {
	ti := m.inputHandler.TextInput(mode)
	if ti == nil {
		return nil
	}
	return &views.Bar{
		Label:   label,
		Input:   ti.View(),
		Focused: m.inputHandler.CurrentMode() == mode,
	}
}

func (m *Model) viewState() views.ViewState {
	state := views.ViewState{
		Width:   m.width,
		Height:  m.height,
		Root:    m.config.RootDir,
		Mode:    m.inputHandler.ModeName(),
		Options: m.options,
		Filters: m.filters,
		Notice:  m.notice,
		Results: views.ResultsState{
			State:    m.results.State(),
			Rows:     m.results.Rows(),
			Cursor:   m.results.Cursor(),
			Offset:   m.results.ViewportOffset(),
			Focused:  m.resultsFocused,
			Pending:  m.searching > 0,
			Expanded: m.results.IsExpanded,
		},
	}
	// A nil buffer must stay a nil interface
	if m.searchBuf != nil {
		state.Doc = m.searchBuf
	}

	if m.findOpen {
		state.FindBar = m.bar(inputtypes.ModeFind, "Find: ")
		state.ReplaceBar = m.bar(inputtypes.ModeReplace, "Replace: ")
		if m.search != nil {
			state.Counter = m.search.StatusText()
		}
	}
	if m.globalOpen {
		state.GlobalBar = m.bar(inputtypes.ModeGlobal, "Search files: ")
		state.GlobalRepBar = m.bar(inputtypes.ModeGlobalReplace, "Replace in files: ")
	}

	if m.confirm != nil {
		dialog := m.confirm.dialog
		state.Confirm = &dialog
	}
	if m.showHelp {
		state.ShowHelp = true
		state.HelpContent = m.helpRenderer.renderHelpContent(m.height, m.helpScroll)
	}
	return state
}

// tick returns a command that sends a tick message after a delay
func tick() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
