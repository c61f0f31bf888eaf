package overlay

import "unicode/utf8"

// Style names attached to highlighted text
const (
	StyleMatch       = "match"
	StyleActiveMatch = "active-match"
	StyleLineFlash   = "line-flash"
)

// Mode is driven by the buffer tokenizer once per scan step. Token must
// advance s.Pos and returns the style of the consumed text ("" for none).
type Mode interface {
	Token(s *Stream) string
}

// Mark is a handle to a decoration placed on the buffer
type Mark interface {
	Clear()
}

// Stream walks a single line for a Mode
type Stream struct {
	String string
	Pos    int
	Start  int
}

// NewStream creates a stream positioned at the start of line
func NewStream(line string) *Stream {
	return &Stream{String: line}
}

// EOL reports whether the stream is at the end of the line
func (s *Stream) EOL() bool {
	return s.Pos >= len(s.String)
}

// Peek returns the next rune without consuming it
func (s *Stream) Peek() rune {
	if s.EOL() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.String[s.Pos:])
	return r
}

// Next consumes one rune
func (s *Stream) Next() rune {
	if s.EOL() {
		return utf8.RuneError
	}
	r, size := utf8.DecodeRuneInString(s.String[s.Pos:])
	s.Pos += size
	return r
}

// Current returns the text consumed since Start
func (s *Stream) Current() string {
	return s.String[s.Start:s.Pos]
}
