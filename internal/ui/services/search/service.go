package search

import (
	"fmt"
	"log"
	"strings"
	"time"

	"editgrep/internal/domain"
	"editgrep/internal/eventbus"
	"editgrep/internal/query"
	"editgrep/internal/ui/services/overlay"
)

// Buffer is the editor collaborator the search service drives
type Buffer interface {
	SearchCursor(q *query.Compiled, from domain.Position, backward bool) (domain.MatchSpan, bool)
	Selection() domain.MatchSpan
	SetSelection(span domain.MatchSpan)
	ScrollIntoView(span domain.MatchSpan, marginPx int)
	AddOverlay(m overlay.Mode)
	RemoveOverlay(m overlay.Mode)
	MarkText(span domain.MatchSpan, class string, ttl time.Duration) overlay.Mark
	ReplaceRange(span domain.MatchSpan, text string)
	Operation(fn func())
	DocStart() domain.Position
	DocEnd() domain.Position
	Line(i int) string
}

// Notifier shows transient notices
type Notifier interface {
	Notify(message string, kind domain.NoticeKind, duration time.Duration)
}

// Service handles in-buffer search: highlighting, navigation, counting and replacement
type Service struct {
	state    *State
	buf      Buffer
	notifier Notifier
	bus      eventbus.EventBus
	settings Settings
}

// NewService creates a new search service bound to buf
func NewService(buf Buffer, notifier Notifier, bus eventbus.EventBus, settings Settings) *Service {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	if settings.ScrollMarginPx < 0 {
		settings.ScrollMarginPx = 0
	}
	return &Service{
		state: &State{
			Query:  query.Compile("", domain.SearchOptions{}),
			Status: domain.MatchCountState{ActiveIndex: -1},
		},
		buf:      buf,
		notifier: notifier,
		bus:      bus,
		settings: settings,
	}
}

// SetQuery rebuilds the compiled query from raw and opts, replaces the
// highlight overlay and recomputes the counter.
func (s *Service) SetQuery(raw string, opts domain.SearchOptions) {
	s.removeOverlay()
	s.clearActive()

	s.state.Raw = raw
	s.state.Options = opts
	s.state.Query = query.Compile(raw, opts)

	switch s.state.Query.Kind {
	case query.KindEmpty:
		s.state.Status = domain.MatchCountState{ActiveIndex: -1}
		s.bus.Publish(domain.SearchClearedEvent{})
		return
	case query.KindInvalid:
		log.Printf("Invalid search pattern %q: %v", raw, s.state.Query.Err)
		s.state.Status = domain.MatchCountState{ActiveIndex: -1}
		s.notify(MsgInvalidRegex, domain.NoticeWarning)
		return
	}

	s.bus.Publish(domain.SearchStartedEvent{Query: raw, Options: opts})
	s.installOverlay()
	s.updateStatus()
	s.bus.Publish(domain.SearchCompletedEvent{Query: raw, Status: s.state.Status})
}

// Query returns the current compiled query
func (s *Service) Query() *query.Compiled {
	return s.state.Query
}

// Raw returns the query text as typed
func (s *Service) Raw() string {
	return s.state.Raw
}

// Options returns the options the current query was built with
func (s *Service) Options() domain.SearchOptions {
	return s.state.Options
}

// FindNext selects the next match after the selection, wrapping to the
// document start when needed.
func (s *Service) FindNext() bool {
	return s.find(false)
}

// FindPrevious selects the match before the selection, wrapping to the
// document end when needed.
func (s *Service) FindPrevious() bool {
	return s.find(true)
}

func (s *Service) find(backward bool) bool {
	q := s.state.Query
	if q.IsEmpty() {
		return false
	}
	if !q.Valid() {
		s.notify(MsgInvalidRegex, domain.NoticeWarning)
		return false
	}

	sel := s.buf.Selection()
	from := sel.To
	if backward {
		from = sel.From
	}

	span, ok := s.buf.SearchCursor(q, from, backward)
	wrapped := false
	if !ok {
		from = s.buf.DocStart()
		if backward {
			from = s.buf.DocEnd()
		}
		span, ok = s.buf.SearchCursor(q, from, backward)
		wrapped = ok
	}
	if !ok {
		s.notify(MsgNoMatch, domain.NoticeWarning)
		return false
	}
	if wrapped {
		s.notify(MsgWrapped, domain.NoticeInfo)
	}

	s.selectMatch(span)
	s.bus.Publish(domain.SearchNavigatedEvent{Span: span, Wrapped: wrapped})
	return true
}

func (s *Service) selectMatch(span domain.MatchSpan) {
	s.buf.SetSelection(span)
	s.buf.ScrollIntoView(span, s.settings.ScrollMarginPx)
	s.clearActive()
	s.state.active = s.buf.MarkText(span, overlay.StyleActiveMatch, 0)
	s.updateStatus()
}

// Status returns the match counter for the current query and selection
func (s *Service) Status() domain.MatchCountState {
	return s.state.Status
}

// StatusText renders the counter, or "" while there is no query
func (s *Service) StatusText() string {
	if s.state.Query.IsEmpty() {
		return ""
	}
	return s.state.Status.Text()
}

// Refresh recomputes highlighting and the counter after the buffer changed
// underneath the service.
func (s *Service) Refresh() {
	if !s.state.Query.Valid() {
		return
	}
	s.removeOverlay()
	s.installOverlay()
	s.updateStatus()
	s.bus.Publish(domain.SearchCompletedEvent{Query: s.state.Raw, Status: s.state.Status})
}

// ReplaceCurrent replaces the selection when it is exactly a match of the
// current query, then moves on to the next match.
func (s *Service) ReplaceCurrent(replacement string) bool {
	q := s.state.Query
	if !q.Valid() {
		return s.find(false)
	}

	replaced := false
	sel := s.buf.Selection()
	if !sel.IsEmpty() && sel.From.Line == sel.To.Line {
		if m, ok := s.buf.SearchCursor(q, sel.From, false); ok && m.Equal(sel) {
			line := s.buf.Line(sel.From.Line)
			text := q.Expand(line, lineMatch(sel), replacement)
			s.clearActive()
			s.buf.ReplaceRange(sel, text)
			// the selection collapses to the end of the insertion
			s.buf.SetSelection(domain.MatchSpan{From: endOf(sel.From, text), To: endOf(sel.From, text)})
			replaced = true
			s.bus.Publish(domain.ReplacedEvent{Query: s.state.Raw, Count: 1})
		}
	}

	if replaced {
		s.removeOverlay()
		s.installOverlay()
	}
	found := s.find(false)
	if !found {
		s.updateStatus()
	}
	return replaced
}

// ReplaceAll replaces every match in the buffer as one undoable operation and
// returns the number of replacements.
func (s *Service) ReplaceAll(replacement string) int {
	q := s.state.Query
	if q.IsEmpty() {
		return 0
	}
	if !q.Valid() {
		s.notify(MsgInvalidRegex, domain.NoticeWarning)
		return 0
	}

	s.clearActive()
	count := 0
	s.buf.Operation(func() {
		pos := s.buf.DocStart()
		for {
			m, ok := s.buf.SearchCursor(q, pos, false)
			if !ok {
				return
			}
			text := q.Expand(s.buf.Line(m.From.Line), lineMatch(m), replacement)
			s.buf.ReplaceRange(m, text)
			count++
			pos = endOf(m.From, text)
		}
	})

	if count == 0 {
		s.notify(MsgNoMatch, domain.NoticeWarning)
	} else {
		s.notify(fmt.Sprintf("Replaced %d occurrences", count), domain.NoticeSuccess)
		log.Printf("Replaced %d occurrences of %q", count, s.state.Raw)
		s.bus.Publish(domain.ReplacedEvent{Query: s.state.Raw, Count: count})
	}

	s.removeOverlay()
	s.installOverlay()
	s.updateStatus()
	return count
}

// Close tears down the overlay and the active-match decoration
func (s *Service) Close() {
	s.removeOverlay()
	s.clearActive()
	s.state.Raw = ""
	s.state.Query = query.Compile("", s.state.Options)
	s.state.Status = domain.MatchCountState{ActiveIndex: -1}
	s.bus.Publish(domain.SearchClearedEvent{})
}

func (s *Service) installOverlay() {
	if o := overlay.New(s.state.Query); o != nil {
		s.state.overlay = o
		s.buf.AddOverlay(o)
	}
}

func (s *Service) removeOverlay() {
	if s.state.overlay != nil {
		s.buf.RemoveOverlay(s.state.overlay)
		s.state.overlay = nil
	}
}

func (s *Service) clearActive() {
	if s.state.active != nil {
		s.state.active.Clear()
		s.state.active = nil
	}
}

func (s *Service) updateStatus() {
	s.state.Status = computeStatus(s.buf, s.state.Query, s.buf.Selection())
}

func (s *Service) notify(msg string, kind domain.NoticeKind) {
	if s.notifier != nil {
		s.notifier.Notify(msg, kind, s.settings.NoticeDuration)
	}
}

// computeStatus counts every match from the document start, never wrapping,
// and reports the ordinal of the match equal to sel.
func computeStatus(buf Buffer, q *query.Compiled, sel domain.MatchSpan) domain.MatchCountState {
	st := domain.MatchCountState{ActiveIndex: -1}
	if !q.Valid() {
		return st
	}
	pos := buf.DocStart()
	for {
		m, ok := buf.SearchCursor(q, pos, false)
		if !ok || !pos.Before(m.To) {
			return st
		}
		st.Total++
		if m.Equal(sel) {
			st.ActiveIndex = st.Total
		}
		pos = m.To
	}
}

func lineMatch(span domain.MatchSpan) domain.LineMatch {
	return domain.LineMatch{Start: span.From.Column, End: span.To.Column}
}

// endOf returns the position just after text inserted at from
func endOf(from domain.Position, text string) domain.Position {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return domain.Position{Line: from.Line, Column: from.Column + len(text)}
	}
	return domain.Position{Line: from.Line + len(lines) - 1, Column: len(lines[len(lines)-1])}
}
