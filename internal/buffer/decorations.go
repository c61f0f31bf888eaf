package buffer

import (
	"sort"
	"time"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/overlay"
)

// Segment is a run of line text sharing the same styles
type Segment struct {
	Text   string
	Styles []string
}

// MarkInfo describes a live mark
type MarkInfo struct {
	Span  domain.MatchSpan
	Class string
}

type mark struct {
	b     *Buffer
	id    uint64
	span  domain.MatchSpan
	class string
	timer *time.Timer
}

// Clear removes the mark. Safe to call more than once.
func (m *mark) Clear() {
	m.b.mu.Lock()
	defer m.b.mu.Unlock()
	if m.timer != nil {
		m.timer.Stop()
	}
	delete(m.b.marks, m.id)
}

// AddOverlay installs a tokenizer overlay
func (b *Buffer) AddOverlay(m overlay.Mode) {
	if m == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overlays = append(b.overlays, m)
}

// RemoveOverlay uninstalls m if present
func (b *Buffer) RemoveOverlay(m overlay.Mode) {
	if m == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, o := range b.overlays {
		if o == m {
			b.overlays = append(b.overlays[:i:i], b.overlays[i+1:]...)
			return
		}
	}
}

// OverlayCount returns the number of installed overlays
func (b *Buffer) OverlayCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.overlays)
}

// MarkText decorates span with class. A positive ttl clears the mark
// automatically once it elapses.
func (b *Buffer) MarkText(span domain.MatchSpan, class string, ttl time.Duration) overlay.Mark {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextMark++
	m := &mark{b: b, id: b.nextMark, span: span, class: class}
	b.marks[m.id] = m
	if ttl > 0 {
		m.timer = time.AfterFunc(ttl, m.Clear)
	}
	return m
}

// Marks lists live marks in document order
func (b *Buffer) Marks() []MarkInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]MarkInfo, 0, len(b.marks))
	for _, m := range b.marks {
		out = append(out, MarkInfo{Span: m.span, Class: m.class})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Span.From != out[j].Span.From {
			return out[i].Span.From.Before(out[j].Span.From)
		}
		return out[i].Class < out[j].Class
	})
	return out
}

type styledRange struct {
	start, end int
	style      string
}

// Highlight tokenizes line i with every installed overlay and every mark and
// returns the line split into uniformly styled segments.
func (b *Buffer) Highlight(i int) []Segment {
	b.mu.Lock()
	if i < 0 || i >= len(b.lines) {
		b.mu.Unlock()
		return nil
	}
	line := b.lines[i]
	modes := append([]overlay.Mode(nil), b.overlays...)
	var ranges []styledRange
	for _, m := range b.marks {
		if r, ok := markRange(m, i, len(line)); ok {
			ranges = append(ranges, r)
		}
	}
	b.mu.Unlock()

	for _, mode := range modes {
		s := overlay.NewStream(line)
		for !s.EOL() {
			s.Start = s.Pos
			style := mode.Token(s)
			if s.Pos <= s.Start {
				// a mode that does not advance would stall the line
				s.Next()
			}
			if style != "" {
				ranges = append(ranges, styledRange{s.Start, s.Pos, style})
			}
		}
	}

	return segment(line, ranges)
}

func markRange(m *mark, line, lineLen int) (styledRange, bool) {
	if line < m.span.From.Line || line > m.span.To.Line {
		return styledRange{}, false
	}
	start, end := 0, lineLen
	if line == m.span.From.Line {
		start = m.span.From.Column
	}
	if line == m.span.To.Line {
		end = m.span.To.Column
	}
	// an empty span on a single line marks the whole line
	if m.span.IsEmpty() {
		start, end = 0, lineLen
	}
	if start > lineLen {
		start = lineLen
	}
	if end > lineLen {
		end = lineLen
	}
	if end <= start {
		return styledRange{}, false
	}
	return styledRange{start, end, m.class}, true
}

func segment(line string, ranges []styledRange) []Segment {
	if line == "" {
		return []Segment{{Text: ""}}
	}

	cuts := map[int]struct{}{0: {}, len(line): {}}
	for _, r := range ranges {
		cuts[r.start] = struct{}{}
		cuts[r.end] = struct{}{}
	}
	bounds := make([]int, 0, len(cuts))
	for c := range cuts {
		bounds = append(bounds, c)
	}
	sort.Ints(bounds)

	var out []Segment
	for k := 0; k+1 < len(bounds); k++ {
		a, z := bounds[k], bounds[k+1]
		var styles []string
		for _, r := range ranges {
			if r.start <= a && z <= r.end {
				styles = append(styles, r.style)
			}
		}
		sort.Strings(styles)
		out = append(out, Segment{Text: line[a:z], Styles: styles})
	}
	return out
}

// SetViewport configures the visible height in lines and the line height in pixels
func (b *Buffer) SetViewport(heightLines, lineHeightPx int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if heightLines > 0 {
		b.viewHeight = heightLines
	}
	if lineHeightPx > 0 {
		b.lineHeightPx = lineHeightPx
	}
}

// ScrollTop returns the first visible line
func (b *Buffer) ScrollTop() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scrollTop
}

// ScrollIntoView scrolls so that span is visible with at least marginPx of
// space above and below it.
func (b *Buffer) ScrollIntoView(span domain.MatchSpan, marginPx int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	margin := 0
	if marginPx > 0 {
		margin = (marginPx + b.lineHeightPx - 1) / b.lineHeightPx
	}
	// keep the margin satisfiable on tiny viewports
	if limit := (b.viewHeight - 1) / 2; margin > limit {
		margin = limit
	}

	top := b.scrollTop
	if span.From.Line-margin < top {
		top = span.From.Line - margin
	}
	if bottom := span.To.Line + margin; bottom >= top+b.viewHeight {
		top = bottom - b.viewHeight + 1
	}
	if top > len(b.lines)-1 {
		top = len(b.lines) - 1
	}
	if top < 0 {
		top = 0
	}
	b.scrollTop = top
}
