package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/global"
)

// consoleHost renders results as plain lines and asks for confirmation on
// the input stream.
type consoleHost struct {
	query     string
	out       io.Writer
	in        *bufio.Reader
	assumeYes bool
	quiet     bool // drop result output, keep errors

	err error
}

func newConsoleHost(query string, out io.Writer, in io.Reader) *consoleHost {
	return &consoleHost{query: query, out: out, in: bufio.NewReader(in)}
}

func (h *consoleHost) CurrentQuery() string {
	return h.query
}

// Err returns the failure the last search or replace reported
func (h *consoleHost) Err() error {
	return h.err
}

func (h *consoleHost) RenderResults(v global.View) {
	if h.quiet {
		return
	}
	for _, g := range v.Groups {
		for _, e := range g.Entries {
			fmt.Fprintf(h.out, "%s:%d: %s\n", g.Path, e.Line, e.Content)
		}
	}
	for _, e := range v.Entities {
		fmt.Fprintf(h.out, "entity %s (%s)\n", e.ID, e.Name)
	}
	fmt.Fprintf(h.out, "%d results in %d files\n", v.Total, len(v.Groups))
}

func (h *consoleHost) RenderEmpty() {
	if !h.quiet {
		fmt.Fprintln(h.out, "No results")
	}
}

func (h *consoleHost) RenderError(msg string) {
	h.err = errors.New(msg)
}

func (h *consoleHost) Notify(message string, kind domain.NoticeKind, _ time.Duration) {
	if kind == domain.NoticeError {
		h.err = errors.New(message)
		return
	}
	fmt.Fprintln(h.out, message)
}

func (h *consoleHost) Confirm(ctx context.Context, dialog domain.ConfirmDialog) (bool, error) {
	if h.assumeYes {
		return true, nil
	}
	fmt.Fprintf(h.out, "%s\n%s [y/N] ", dialog.Title, dialog.Message)

	answer := make(chan string, 1)
	go func() {
		line, _ := h.in.ReadString('\n')
		answer <- line
	}()
	select {
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
