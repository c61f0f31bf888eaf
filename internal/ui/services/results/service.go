// Package results keeps the grouped cross-collection results shown in the
// results pane: which groups are expanded and where the cursor is.
package results

import (
	"editgrep/internal/domain"
	"editgrep/internal/ui/services/global"
	"editgrep/internal/ui/services/navigation"
)

// Service handles the results pane
type Service struct {
	state *State
	nav   *navigation.Service
	rows  []Row
}

// NewService creates a new results service
func NewService() *Service {
	s := &Service{
		state: &State{Expanded: make(map[string]bool)},
		nav:   navigation.NewService(),
	}
	s.nav.SetQueryFunction(func() int { return len(s.rows) - 1 })
	return s
}

// SetView replaces the shown results. Groups start expanded.
func (s *Service) SetView(v global.View) {
	s.state.Status = StatusResults
	s.state.View = v
	s.state.Error = ""
	s.state.Expanded = make(map[string]bool, len(v.Groups)+1)
	for _, g := range v.Groups {
		s.state.Expanded[g.Path] = true
	}
	s.state.Expanded[EntitiesGroup] = true
	s.rebuild()
	s.nav.Reset()
}

// SetEmpty shows the empty state
func (s *Service) SetEmpty() {
	s.state.Status = StatusEmpty
	s.state.View = global.View{}
	s.state.Error = ""
	s.rebuild()
	s.nav.Reset()
}

// SetError shows msg in place of results
func (s *Service) SetError(msg string) {
	s.state.Status = StatusError
	s.state.Error = msg
	s.rebuild()
	s.nav.Reset()
}

// State returns the pane state for rendering
func (s *Service) State() *State {
	return s.state
}

// Rows returns the visible rows
func (s *Service) Rows() []Row {
	return s.rows
}

// Cursor returns the index of the current row
func (s *Service) Cursor() int {
	return s.nav.GetCursor()
}

// ViewportOffset returns the first visible row
func (s *Service) ViewportOffset() int {
	return s.nav.GetViewportOffset()
}

// SetViewportHeight sets how many rows fit in the pane
func (s *Service) SetViewportHeight(h int) {
	s.nav.SetViewportHeight(h)
}

// Navigate moves the cursor
func (s *Service) Navigate(dir navigation.Direction) {
	s.nav.Navigate(dir)
}

// Current returns the row under the cursor
func (s *Service) Current() (Row, bool) {
	i := s.nav.GetCursor()
	if i < 0 || i >= len(s.rows) {
		return Row{}, false
	}
	return s.rows[i], true
}

// Target returns the file location of the row under the cursor
func (s *Service) Target() (path string, line int, ok bool) {
	r, ok := s.Current()
	if !ok || r.Kind != RowEntry {
		return "", 0, false
	}
	g := s.state.View.Groups[r.Group]
	return g.Path, g.Entries[r.Entry].Line, true
}

// Entity returns the entity under the cursor
func (s *Service) Entity() (domain.Entity, bool) {
	r, ok := s.Current()
	if !ok || r.Kind != RowEntity {
		return domain.Entity{}, false
	}
	return s.state.View.Entities[r.Entry], true
}

// IsOnGroup reports whether the cursor is on a collapsible header
func (s *Service) IsOnGroup() bool {
	r, ok := s.Current()
	return ok && (r.Kind == RowGroup || r.Kind == RowEntitiesHeader)
}

// IsExpanded reports whether the group with key is expanded
func (s *Service) IsExpanded(key string) bool {
	return s.state.Expanded[key]
}

// ToggleCurrent collapses or expands the group the cursor is in and keeps
// the cursor on its header.
func (s *Service) ToggleCurrent() {
	r, ok := s.Current()
	if !ok {
		return
	}
	key := s.groupKey(r)
	s.state.Expanded[key] = !s.state.Expanded[key]
	s.rebuild()
	for i, row := range s.rows {
		if (row.Kind == RowGroup || row.Kind == RowEntitiesHeader) && s.groupKey(row) == key {
			s.nav.MoveToIndex(i)
			return
		}
	}
	s.nav.MoveToIndex(s.nav.GetCursor())
}

// SetAllExpanded expands or collapses every group
func (s *Service) SetAllExpanded(expanded bool) {
	for _, g := range s.state.View.Groups {
		s.state.Expanded[g.Path] = expanded
	}
	s.state.Expanded[EntitiesGroup] = expanded
	s.rebuild()
	s.nav.MoveToIndex(0)
}

func (s *Service) groupKey(r Row) string {
	if r.Kind == RowEntitiesHeader || r.Kind == RowEntity {
		return EntitiesGroup
	}
	return s.state.View.Groups[r.Group].Path
}

func (s *Service) rebuild() {
	s.rows = s.rows[:0]
	if s.state.Status != StatusResults {
		return
	}
	for gi, g := range s.state.View.Groups {
		s.rows = append(s.rows, Row{Kind: RowGroup, Group: gi})
		if !s.state.Expanded[g.Path] {
			continue
		}
		for ei := range g.Entries {
			s.rows = append(s.rows, Row{Kind: RowEntry, Group: gi, Entry: ei})
		}
	}
	if len(s.state.View.Entities) == 0 {
		return
	}
	s.rows = append(s.rows, Row{Kind: RowEntitiesHeader, Group: -1})
	if s.state.Expanded[EntitiesGroup] {
		for ei := range s.state.View.Entities {
			s.rows = append(s.rows, Row{Kind: RowEntity, Group: -1, Entry: ei})
		}
	}
}
