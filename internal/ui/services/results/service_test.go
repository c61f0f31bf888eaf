package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editgrep/internal/domain"
	"editgrep/internal/ui/services/global"
	"editgrep/internal/ui/services/navigation"
)

func sampleView() global.View {
	return global.View{
		Query: "light",
		Groups: []global.FileGroup{
			{Path: "a.yaml", Entries: []global.Entry{{Line: 1, Content: "light"}, {Line: 4, Content: "light"}}},
			{Path: "b.yaml", Entries: []global.Entry{{Line: 9, Content: "light"}}},
		},
		Entities: []domain.Entity{{ID: "light.kitchen", Name: "Kitchen"}},
		Total:    3,
	}
}

func TestRowsFlattenGroups(t *testing.T) {
	s := NewService()
	s.SetView(sampleView())

	kinds := make([]RowKind, 0, len(s.Rows()))
	for _, r := range s.Rows() {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []RowKind{RowGroup, RowEntry, RowEntry, RowGroup, RowEntry, RowEntitiesHeader, RowEntity}, kinds)
	assert.True(t, s.IsOnGroup())
}

func TestTargetOfEntryRow(t *testing.T) {
	s := NewService()
	s.SetView(sampleView())

	_, _, ok := s.Target()
	assert.False(t, ok)

	s.Navigate(navigation.DirectionDown)
	s.Navigate(navigation.DirectionDown)
	path, line, ok := s.Target()
	require.True(t, ok)
	assert.Equal(t, "a.yaml", path)
	assert.Equal(t, 4, line)

	s.Navigate(navigation.DirectionEnd)
	e, ok := s.Entity()
	require.True(t, ok)
	assert.Equal(t, "light.kitchen", e.ID)
}

func TestToggleCollapsesGroupAndKeepsCursorOnHeader(t *testing.T) {
	s := NewService()
	s.SetView(sampleView())

	s.Navigate(navigation.DirectionDown)
	s.ToggleCurrent()
	assert.False(t, s.IsExpanded("a.yaml"))
	assert.Len(t, s.Rows(), 5)
	assert.Equal(t, 0, s.Cursor())

	s.ToggleCurrent()
	assert.Len(t, s.Rows(), 7)

	s.SetAllExpanded(false)
	assert.Len(t, s.Rows(), 3)
}

func TestEmptyAndErrorStatesHaveNoRows(t *testing.T) {
	s := NewService()
	s.SetView(sampleView())

	s.SetEmpty()
	assert.Equal(t, StatusEmpty, s.State().Status)
	assert.Empty(t, s.Rows())

	s.SetError("Search failed: boom")
	assert.Equal(t, StatusError, s.State().Status)
	assert.Equal(t, "Search failed: boom", s.State().Error)
	_, ok := s.Current()
	assert.False(t, ok)
}
