package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editgrep/internal/config"
	inputtypes "editgrep/internal/ui/input/types"
	"editgrep/internal/ui/coordinator"
	"editgrep/internal/ui/services/results"
)

type testModel struct {
	*Model
	t    *testing.T
	root string
	sent chan tea.Msg
}

func newTestModel(t *testing.T, files map[string]string) *testModel {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.DefaultConfig()
	cfg.RootDir = root
	m := NewModel(cfg, coordinator.NewCoordinator(cfg, nil))

	tm := &testModel{Model: m, t: t, root: root, sent: make(chan tea.Msg, 64)}
	m.host.send = func(msg tea.Msg) { tm.sent <- msg }
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return tm
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "ctrl+a":
		return tea.KeyMsg{Type: tea.KeyCtrlA}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends one key and returns the resulting command
func (tm *testModel) press(key string) tea.Cmd {
	_, cmd := tm.Update(keyMsg(key))
	return cmd
}

// run executes cmd and feeds its message back into the model
func (tm *testModel) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			tm.run(c)
		}
		return
	}
	tm.Update(msg)
	tm.flush()
}

// flush delivers what the coordinators sent to the program
func (tm *testModel) flush() {
	for {
		select {
		case msg := <-tm.sent:
			tm.Update(msg)
		default:
			return
		}
	}
}

func (tm *testModel) readFile(rel string) string {
	data, err := os.ReadFile(filepath.Join(tm.root, filepath.FromSlash(rel)))
	require.NoError(tm.t, err)
	return string(data)
}

func (tm *testModel) globalSearch(q string) {
	tm.press("F")
	tm.inputHandler.SetValue(inputtypes.ModeGlobal, q)
	tm.run(tm.press("enter"))
}

func TestViewBeforeSize(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RootDir = t.TempDir()
	m := NewModel(cfg, coordinator.NewCoordinator(cfg, nil))
	assert.Equal(t, "Loading...", m.View())
}

func TestGlobalSearchAndOpenResult(t *testing.T) {
	tm := newTestModel(t, map[string]string{
		"a.yaml":   "light: on\nswitch: off\n",
		"b/c.yaml": "the light\n",
	})
	assert.Contains(t, tm.View(), "No file open")

	tm.globalSearch("light")
	state := tm.results.State()
	require.Equal(t, results.StatusResults, state.Status)
	assert.Equal(t, 2, state.View.Total)
	assert.Equal(t, 0, tm.searching)
	assert.Contains(t, tm.View(), "2 results in 2 files")

	// down from the global box focuses the results
	tm.press("down")
	assert.Equal(t, inputtypes.ModeNormal, tm.inputHandler.CurrentMode())
	assert.True(t, tm.resultsFocused)

	tm.press("down")
	tm.press("enter")
	require.NotNil(t, tm.searchBuf)
	assert.Equal(t, "a.yaml", tm.searchBuf.Path())
	assert.False(t, tm.resultsFocused)
	assert.Contains(t, tm.View(), "light: on")
}

func TestShortGlobalQueryShowsEmpty(t *testing.T) {
	tm := newTestModel(t, map[string]string{"a.yaml": "light\n"})
	tm.globalSearch("light")
	require.Equal(t, results.StatusResults, tm.results.State().Status)

	tm.inputHandler.SetValue(inputtypes.ModeGlobal, "l")
	tm.processAction(inputtypes.UpdateTextAction{Text: "l", Mode: inputtypes.ModeGlobal})
	assert.Equal(t, results.StatusEmpty, tm.results.State().Status)
}

func TestFindInOpenFile(t *testing.T) {
	tm := newTestModel(t, map[string]string{"a.yaml": "light: on\nlight: off\nswitch: on\n"})
	b, err := tm.coord.Workspace.Open("a.yaml")
	require.NoError(t, err)
	tm.bindBuffer(b)

	tm.press("/")
	assert.Equal(t, inputtypes.ModeFind, tm.inputHandler.CurrentMode())
	for _, r := range "light" {
		tm.press(string(r))
	}
	assert.Equal(t, "light", tm.search.Raw())
	assert.Equal(t, 2, tm.search.Status().Total)

	tm.press("enter")
	assert.Equal(t, "1 of 2", tm.search.StatusText())
	tm.press("enter")
	assert.Equal(t, "2 of 2", tm.search.StatusText())
	assert.Contains(t, tm.View(), "2 of 2")

	tm.press("esc")
	assert.Equal(t, inputtypes.ModeNormal, tm.inputHandler.CurrentMode())
	assert.False(t, tm.findOpen)
	assert.NotContains(t, tm.View(), "2 of 2")
}

func TestLocalReplaceUndoAndSave(t *testing.T) {
	tm := newTestModel(t, map[string]string{"a.yaml": "light: on\nlight: off\n"})
	b, err := tm.coord.Workspace.Open("a.yaml")
	require.NoError(t, err)
	tm.bindBuffer(b)

	tm.inputHandler.SetValue(inputtypes.ModeFind, "light")
	tm.press("r")
	assert.Equal(t, inputtypes.ModeReplace, tm.inputHandler.CurrentMode())
	assert.Equal(t, 2, tm.search.Status().Total)

	tm.inputHandler.SetValue(inputtypes.ModeReplace, "lamp")
	tm.press("ctrl+a")
	assert.Equal(t, "lamp: on\nlamp: off\n", b.Text())
	assert.Equal(t, 0, tm.search.Status().Total)

	tm.press("esc")
	tm.press("u")
	assert.Equal(t, "light: on\nlight: off\n", b.Text())

	tm.press("ctrl+s")
	assert.Equal(t, "light: on\nlight: off\n", tm.readFile("a.yaml"))
	require.NotNil(t, tm.notice)
	assert.Contains(t, tm.notice.Message, "Saved a.yaml")
}

func TestGlobalReplaceConfirmed(t *testing.T) {
	tm := newTestModel(t, map[string]string{
		"a.yaml":   "light: on\nlight: off\n",
		"b/c.yaml": "the light\n",
	})
	b, err := tm.coord.Workspace.Open("a.yaml")
	require.NoError(t, err)
	tm.bindBuffer(b)

	tm.globalSearch("light")
	tm.press("tab")
	assert.Equal(t, inputtypes.ModeGlobalReplace, tm.inputHandler.CurrentMode())
	tm.inputHandler.SetValue(inputtypes.ModeGlobalReplace, "lamp")
	cmd := tm.press("enter")
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-tm.sent:
		tm.Update(msg)
	case <-time.After(5 * time.Second):
		t.Fatal("no confirm request")
	}
	require.NotNil(t, tm.confirm)
	assert.Equal(t, inputtypes.ModeConfirm, tm.inputHandler.CurrentMode())
	view := tm.View()
	assert.Contains(t, view, "Replace in files")
	assert.Contains(t, view, "3 occurrences")

	tm.press("y")
	assert.Nil(t, tm.confirm)

	select {
	case msg := <-done:
		tm.Update(msg)
	case <-time.After(5 * time.Second):
		t.Fatal("replace did not finish")
	}
	tm.flush()

	assert.Equal(t, "lamp: on\nlamp: off\n", tm.readFile("a.yaml"))
	assert.Equal(t, "the lamp\n", tm.readFile("b/c.yaml"))
	assert.Equal(t, "lamp: on\nlamp: off\n", b.Text())
	require.NotNil(t, tm.notice)
	assert.Equal(t, "Updated 2 files", tm.notice.Message)
	// the re-run search finds nothing left
	assert.Equal(t, 0, tm.results.State().View.Total)
}

func TestGlobalReplaceDeclined(t *testing.T) {
	tm := newTestModel(t, map[string]string{"a.yaml": "light\n"})
	tm.globalSearch("light")
	tm.press("tab")
	tm.inputHandler.SetValue(inputtypes.ModeGlobalReplace, "lamp")
	cmd := tm.press("enter")
	require.NotNil(t, cmd)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	tm.Update(<-tm.sent)
	tm.press("n")
	tm.Update(<-done)

	assert.Equal(t, "light\n", tm.readFile("a.yaml"))
	assert.Equal(t, inputtypes.ModeNormal, tm.inputHandler.CurrentMode())
}

func TestGlobalReplaceNeedsResults(t *testing.T) {
	tm := newTestModel(t, nil)
	tm.press("R")
	tm.inputHandler.SetValue(inputtypes.ModeGlobalReplace, "lamp")
	assert.Nil(t, tm.press("enter"))
	require.NotNil(t, tm.notice)
	assert.Equal(t, "Search files first", tm.notice.Message)
}

func TestQuitDeclinesPendingConfirm(t *testing.T) {
	tm := newTestModel(t, nil)
	reply := make(chan bool, 1)
	tm.Update(confirmRequestMsg{reply: reply})

	cmd := tm.press("q")
	// q is swallowed by the confirm prompt
	assert.Nil(t, cmd)
	require.NotNil(t, tm.confirm)

	tm.processAction(inputtypes.QuitAction{})
	assert.False(t, <-reply)
	assert.Nil(t, tm.confirm)
}

func TestHelpPopupWithoutProgram(t *testing.T) {
	tm := newTestModel(t, nil)
	tm.press("?")
	assert.True(t, tm.showHelp)
	assert.Contains(t, tm.View(), "editgrep Help")

	tm.press("esc")
	assert.False(t, tm.showHelp)
}

func TestNoticeExpiresOnTick(t *testing.T) {
	tm := newTestModel(t, nil)
	tm.Update(noticeMsg{})
	require.NotNil(t, tm.notice)

	tm.noticeUntil = time.Now().Add(-time.Second)
	tm.Update(tickMsg(time.Now()))
	assert.Nil(t, tm.notice)
}

func TestBufferNavigation(t *testing.T) {
	tm := newTestModel(t, map[string]string{"a.yaml": strings.Repeat("line\n", 50)})
	b, err := tm.coord.Workspace.Open("a.yaml")
	require.NoError(t, err)
	tm.bindBuffer(b)

	tm.press("j")
	tm.press("j")
	assert.Equal(t, 2, b.Selection().From.Line)
	tm.press("G")
	assert.Equal(t, b.LineCount()-1, b.Selection().From.Line)
	assert.Greater(t, b.ScrollTop(), 0)
	tm.press("g")
	tm.press("g")
	assert.Equal(t, 0, b.Selection().From.Line)
	assert.Equal(t, 0, b.ScrollTop())
}
