package results

import "editgrep/internal/ui/services/global"

// Status is what the results pane currently shows
type Status int

const (
	StatusIdle Status = iota
	StatusResults
	StatusEmpty
	StatusError
)

// RowKind tells group headers from the lines under them
type RowKind int

const (
	RowGroup RowKind = iota
	RowEntry
	RowEntitiesHeader
	RowEntity
)

// EntitiesGroup is the expansion key of the entity section
const EntitiesGroup = "\x00entities"

// Row is one visible line of the results pane
type Row struct {
	Kind  RowKind
	Group int // index into View.Groups; -1 for entity rows
	Entry int // index into the group's entries or View.Entities
}

// State holds results pane state
type State struct {
	Status   Status
	View     global.View
	Error    string
	Expanded map[string]bool
}
