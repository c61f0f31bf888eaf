// Package buffer is an in-memory line buffer exposing the primitives the
// search engine needs: cursor search, selection, scrolling, overlays, marks
// and batched operations with undo.
package buffer

import (
	"strings"
	"sync"

	"editgrep/internal/domain"
	"editgrep/internal/query"
	"editgrep/internal/ui/services/overlay"
)

// snapshot is one undo entry
type snapshot struct {
	lines []string
	sel   domain.MatchSpan
}

// Buffer holds the text of one open document
type Buffer struct {
	mu sync.Mutex

	path  string
	lines []string
	sel   domain.MatchSpan

	overlays []overlay.Mode
	marks    map[uint64]*mark
	nextMark uint64

	history  []snapshot
	opDepth  int
	opBefore *snapshot
	opDirty  bool
	revision int

	listeners map[uint64]func()
	nextID    uint64

	viewHeight   int // visible lines
	lineHeightPx int
	scrollTop    int
}

// New creates a buffer holding text
func New(text string) *Buffer {
	return &Buffer{
		lines:        strings.Split(text, "\n"),
		marks:        make(map[uint64]*mark),
		listeners:    make(map[uint64]func()),
		viewHeight:   20,
		lineHeightPx: 10,
	}
}

// NewWithPath creates a buffer for a file of the collection
func NewWithPath(path, text string) *Buffer {
	b := New(text)
	b.path = path
	return b
}

// Path returns the collection path the buffer was loaded from
func (b *Buffer) Path() string { return b.path }

// Text returns the full document
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines
func (b *Buffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.lines)
}

// Line returns line i, or "" when out of range
func (b *Buffer) Line(i int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// DocStart is the first position of the document
func (b *Buffer) DocStart() domain.Position { return domain.Position{} }

// DocEnd is the position after the last character
func (b *Buffer) DocEnd() domain.Position {
	b.mu.Lock()
	defer b.mu.Unlock()
	last := len(b.lines) - 1
	return domain.Position{Line: last, Column: len(b.lines[last])}
}

// Selection returns the current selection; an empty span is the cursor
func (b *Buffer) Selection() domain.MatchSpan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sel
}

// SetSelection selects span, clamped to the document
func (b *Buffer) SetSelection(span domain.MatchSpan) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sel = domain.MatchSpan{From: b.clip(span.From), To: b.clip(span.To)}
}

// SetCursor collapses the selection to p
func (b *Buffer) SetCursor(p domain.Position) {
	b.SetSelection(domain.MatchSpan{From: p, To: p})
}

// SelectedText returns the text covered by the selection
func (b *Buffer) SelectedText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.textIn(b.sel)
}

// SearchCursor returns the first match of q at or after from (forward), or
// the last match ending at or before from (backward). It never wraps.
func (b *Buffer) SearchCursor(q *query.Compiled, from domain.Position, backward bool) (domain.MatchSpan, bool) {
	if !q.Valid() {
		return domain.MatchSpan{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	from = b.clip(from)

	if !backward {
		for ln := from.Line; ln < len(b.lines); ln++ {
			col := 0
			if ln == from.Line {
				col = from.Column
			}
			if m, ok := q.FindForward(b.lines[ln], col); ok {
				return lineSpan(ln, m), true
			}
		}
		return domain.MatchSpan{}, false
	}

	for ln := from.Line; ln >= 0; ln-- {
		col := len(b.lines[ln])
		if ln == from.Line {
			col = from.Column
		}
		if m, ok := q.FindBackward(b.lines[ln], col); ok {
			return lineSpan(ln, m), true
		}
	}
	return domain.MatchSpan{}, false
}

func lineSpan(ln int, m domain.LineMatch) domain.MatchSpan {
	return domain.MatchSpan{
		From: domain.Position{Line: ln, Column: m.Start},
		To:   domain.Position{Line: ln, Column: m.End},
	}
}

// ReplaceRange replaces the text in span with text. The selection follows
// the edit; a selection touching the replaced range collapses to its end.
func (b *Buffer) ReplaceRange(span domain.MatchSpan, text string) {
	b.mu.Lock()
	span = domain.MatchSpan{From: b.clip(span.From), To: b.clip(span.To)}
	if span.To.Before(span.From) {
		span.From, span.To = span.To, span.From
	}

	b.beginChangeLocked()

	first := b.lines[span.From.Line][:span.From.Column]
	last := b.lines[span.To.Line][span.To.Column:]
	inserted := strings.Split(text, "\n")

	newLines := make([]string, 0, len(inserted))
	for i, l := range inserted {
		if i == 0 {
			l = first + l
		}
		if i == len(inserted)-1 {
			l += last
		}
		newLines = append(newLines, l)
	}

	end := domain.Position{
		Line:   span.From.Line + len(inserted) - 1,
		Column: len(inserted[len(inserted)-1]),
	}
	if len(inserted) == 1 {
		end.Column += span.From.Column
	}

	tail := append([]string(nil), b.lines[span.To.Line+1:]...)
	b.lines = append(append(b.lines[:span.From.Line], newLines...), tail...)

	b.sel = domain.MatchSpan{
		From: mapPos(b.sel.From, span, end),
		To:   mapPos(b.sel.To, span, end),
	}

	notify := b.endChangeLocked()
	b.mu.Unlock()
	notify()
}

// mapPos moves p across an edit that replaced span with text ending at end
func mapPos(p domain.Position, span domain.MatchSpan, end domain.Position) domain.Position {
	if p.Before(span.From) {
		return p
	}
	if !span.To.Before(p) {
		return end
	}
	if p.Line == span.To.Line {
		return domain.Position{Line: end.Line, Column: end.Column + p.Column - span.To.Column}
	}
	return domain.Position{Line: p.Line + end.Line - span.To.Line, Column: p.Column}
}

// Operation runs fn as a single change: one undo entry, one revision and one
// change notification no matter how many edits fn makes. Operations nest.
func (b *Buffer) Operation(fn func()) {
	b.mu.Lock()
	b.opDepth++
	if b.opDepth == 1 {
		b.opBefore = b.snapshotLocked()
		b.opDirty = false
	}
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.opDepth--
		var notify func()
		if b.opDepth == 0 {
			if b.opDirty {
				b.history = append(b.history, *b.opBefore)
				b.revision++
				notify = b.listenersLocked()
			}
			b.opBefore = nil
		}
		b.mu.Unlock()
		if notify != nil {
			notify()
		}
	}()

	fn()
}

func (b *Buffer) beginChangeLocked() {
	if b.opDepth > 0 {
		b.opDirty = true
		return
	}
	b.history = append(b.history, *b.snapshotLocked())
}

func (b *Buffer) endChangeLocked() func() {
	if b.opDepth > 0 {
		return func() {}
	}
	b.revision++
	return b.listenersLocked()
}

func (b *Buffer) snapshotLocked() *snapshot {
	return &snapshot{lines: append([]string(nil), b.lines...), sel: b.sel}
}

// Undo reverts the most recent change. It reports false when there is nothing to undo.
func (b *Buffer) Undo() bool {
	b.mu.Lock()
	if len(b.history) == 0 {
		b.mu.Unlock()
		return false
	}
	s := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	b.lines = s.lines
	b.sel = s.sel
	b.revision++
	notify := b.listenersLocked()
	b.mu.Unlock()
	notify()
	return true
}

// HistorySize returns the number of undo entries
func (b *Buffer) HistorySize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.history)
}

// Revision increments once per change or operation
func (b *Buffer) Revision() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision
}

// OnChange registers fn to run after every change. Returns an unsubscribe function.
func (b *Buffer) OnChange(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *Buffer) listenersLocked() func() {
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

// clip keeps p inside the document
func (b *Buffer) clip(p domain.Position) domain.Position {
	if p.Line < 0 {
		return domain.Position{}
	}
	if p.Line >= len(b.lines) {
		last := len(b.lines) - 1
		return domain.Position{Line: last, Column: len(b.lines[last])}
	}
	if p.Column < 0 {
		p.Column = 0
	}
	if p.Column > len(b.lines[p.Line]) {
		p.Column = len(b.lines[p.Line])
	}
	return p
}

func (b *Buffer) textIn(span domain.MatchSpan) string {
	from, to := b.clip(span.From), b.clip(span.To)
	if to.Before(from) {
		from, to = to, from
	}
	if from.Line == to.Line {
		return b.lines[from.Line][from.Column:to.Column]
	}
	parts := []string{b.lines[from.Line][from.Column:]}
	parts = append(parts, b.lines[from.Line+1:to.Line]...)
	parts = append(parts, b.lines[to.Line][:to.Column])
	return strings.Join(parts, "\n")
}
