package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// PagerOps runs full-screen programs on top of the UI: the ov pager and the
// user's editor.
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new PagerOps instance
func NewPagerOps() *PagerOps {
	return &PagerOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PagerOps) SetProgram(program *tea.Program) {
	p.program = program
}

// Available reports whether terminal handoff is possible
func (p *PagerOps) Available() bool {
	return p != nil && p.program != nil
}

// ShowHelpInPager shows help content using ov pager
func (p *PagerOps) ShowHelpInPager(helpContent string) error {
	return p.runPager(strings.NewReader(helpContent))
}

// ShowFileInPager pages the file at path
func (p *PagerOps) ShowFileInPager(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.runPager(f)
}

// runPager runs ov over r, handling terminal release/restore
func (p *PagerOps) runPager(r io.Reader) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	root, err := oviewer.NewRoot(r)
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	return root.Run()
}

// editorCommand builds the command opening path at line in $EDITOR
func editorCommand(path string, line int) *exec.Cmd {
	bin := os.Getenv("EDITOR")
	if bin == "" {
		bin = "vi"
	}
	if line > 0 {
		return exec.Command(bin, fmt.Sprintf("+%d", line), path)
	}
	return exec.Command(bin, path)
}

// RunEditor opens path in the user's editor and waits for it to exit
func (p *PagerOps) RunEditor(path string, line int) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run external program
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Clear screen to reduce visual artifacts when returning
		fmt.Print("\x1b[2J\x1b[H")
		time.Sleep(150 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	cmd := editorCommand(path, line)
	// Inherit stdio so it fully takes over the terminal
	cmd.Stdout = os.Stdout
	cmd.Stdin = os.Stdin
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
