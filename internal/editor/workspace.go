// Package editor holds the set of collection files open in buffers.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"editgrep/internal/buffer"
	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
	"editgrep/internal/logic"
	"editgrep/internal/ui/services/overlay"
)

// ErrOutsideRoot is returned for paths escaping the workspace root
var ErrOutsideRoot = errors.New("path outside workspace root")

// Workspace opens collection files into buffers and keeps them in sync with disk
type Workspace struct {
	root  string
	store logic.OpenFileStore
	bus   eventbus.EventBus

	mu      sync.Mutex
	buffers map[string]*buffer.Buffer
	active  string
}

// NewWorkspace creates a workspace rooted at root
func NewWorkspace(root string, store logic.OpenFileStore, bus eventbus.EventBus) *Workspace {
	if store == nil {
		store = logic.NewMemoryOpenFileStore()
	}
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	return &Workspace{
		root:    root,
		store:   store,
		bus:     bus,
		buffers: make(map[string]*buffer.Buffer),
	}
}

func (w *Workspace) resolve(path string) (string, string, error) {
	rel := filepath.ToSlash(filepath.Clean(strings.TrimPrefix(filepath.ToSlash(path), "/")))
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return filepath.Join(w.root, filepath.FromSlash(rel)), rel, nil
}

// Open returns the buffer for path, loading it from disk on first use
func (w *Workspace) Open(path string) (*buffer.Buffer, error) {
	abs, rel, err := w.resolve(path)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if b, ok := w.buffers[rel]; ok {
		w.active = rel
		return b, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	b := buffer.NewWithPath(rel, string(data))
	w.buffers[rel] = b
	w.active = rel
	w.store.AddOpenFile(&logic.OpenFile{Path: rel, Line: 1})
	return b, nil
}

// OpenAt opens path, puts the cursor on line (1-based), scrolls to it and
// flashes the line for highlight.
func (w *Workspace) OpenAt(path string, line int, highlight time.Duration) error {
	b, err := w.Open(path)
	if err != nil {
		return err
	}
	if line < 1 {
		line = 1
	}

	at := domain.Position{Line: line - 1}
	span := domain.MatchSpan{From: at, To: at}
	b.SetCursor(at)
	b.ScrollIntoView(span, 0)
	if highlight > 0 {
		b.MarkText(span, overlay.StyleLineFlash, highlight)
	}

	if f := w.store.GetOpenFile(b.Path()); f != nil {
		f.Line = line
	}
	return nil
}

// Active returns the buffer most recently opened, or nil
func (w *Workspace) Active() *buffer.Buffer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buffers[w.active]
}

// ActivePath returns the collection path of the active buffer
func (w *Workspace) ActivePath() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// OpenPaths lists the open files in path order
func (w *Workspace) OpenPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.buffers))
	for p := range w.buffers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Save writes the buffer of path back to disk
func (w *Workspace) Save(path string) error {
	abs, rel, err := w.resolve(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	b, ok := w.buffers[rel]
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("%s is not open", rel)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(abs); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(abs, []byte(b.Text()), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	log.Printf("Saved %s", rel)
	return nil
}

// Refresh reloads every open buffer whose file changed on disk. A reload is
// a single undoable edit; files that vanished keep their buffer.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.mu.Lock()
	open := make(map[string]*buffer.Buffer, len(w.buffers))
	for p, b := range w.buffers {
		open[p] = b
	}
	w.mu.Unlock()

	var changed []string
	for rel, b := range open {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(rel)))
		if err != nil {
			log.Printf("Failed to reload %s: %v", rel, err)
			continue
		}
		text := string(data)
		if text == b.Text() {
			continue
		}
		cursor := b.Selection().From
		b.ReplaceRange(domain.MatchSpan{From: b.DocStart(), To: b.DocEnd()}, text)
		b.SetCursor(cursor)
		changed = append(changed, rel)
	}

	if len(changed) > 0 {
		sort.Strings(changed)
		log.Printf("Reloaded %d open files", len(changed))
		w.bus.Publish(domain.CollectionChangedEvent{Paths: changed})
	}
	return nil
}
