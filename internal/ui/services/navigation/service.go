// Package navigation moves a cursor over a list of rows and keeps it inside
// a scrolling viewport.
package navigation

// Service handles all navigation logic
type Service struct {
	state   *State
	queryFn func() int // returns the last valid index
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: &State{
			ViewportHeight: 10, // updated on resize
		},
	}
}

// SetQueryFunction sets the function to query max index
func (s *Service) SetQueryFunction(fn func() int) {
	s.queryFn = fn
}

// GetCursor returns current cursor position
func (s *Service) GetCursor() int {
	return s.state.Cursor
}

// GetViewportOffset returns current viewport offset
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns current viewport height
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates viewport height
func (s *Service) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.state.ViewportHeight = height
	s.ensureVisible()
}

// Navigate moves the cursor in direction and reports whether it moved
func (s *Service) Navigate(direction Direction) bool {
	s.refreshMax()
	old := s.state.Cursor

	switch direction {
	case DirectionUp:
		s.state.Cursor--
	case DirectionDown:
		s.state.Cursor++
	case DirectionPageUp:
		s.state.Cursor -= s.pageSize()
		s.state.ViewportOffset -= s.pageSize()
		if s.state.ViewportOffset < 0 {
			s.state.ViewportOffset = 0
		}
	case DirectionPageDown:
		s.state.Cursor += s.pageSize()
	case DirectionHome:
		s.state.Cursor = 0
		s.state.ViewportOffset = 0
	case DirectionEnd:
		s.state.Cursor = s.state.MaxIndex
	}

	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()
	return old != s.state.Cursor
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.refreshMax()
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
}

// Reset puts the cursor back at the top
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

func (s *Service) pageSize() int {
	if s.state.ViewportHeight > 1 {
		return s.state.ViewportHeight - 1
	}
	return 1
}

func (s *Service) refreshMax() {
	if s.queryFn != nil {
		s.state.MaxIndex = s.queryFn()
	}
	if s.state.MaxIndex < 0 {
		s.state.MaxIndex = 0
	}
}

// Helper methods
func (s *Service) clampIndex(index int) int {
	if index < 0 {
		return 0
	}
	if index > s.state.MaxIndex {
		return s.state.MaxIndex
	}
	return index
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
}
