package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editgrep/internal/domain"
	"editgrep/internal/query"
)

type token struct {
	text  string
	style string
}

// tokenize drives a mode the way the buffer does
func tokenize(t *testing.T, m Mode, line string) []token {
	t.Helper()
	var out []token
	s := NewStream(line)
	for !s.EOL() {
		s.Start = s.Pos
		style := m.Token(s)
		require.Greater(t, s.Pos, s.Start, "token must advance the stream")
		out = append(out, token{s.Current(), style})
	}
	return out
}

func matched(tokens []token) []string {
	var out []string
	for _, tk := range tokens {
		if tk.style == StyleMatch {
			out = append(out, tk.text)
		}
	}
	return out
}

func TestNewReturnsNilForUnusableQueries(t *testing.T) {
	assert.Nil(t, New(query.Compile("", domain.SearchOptions{})))
	assert.Nil(t, New(query.Compile("(", domain.SearchOptions{UsePattern: true})))
	assert.NotNil(t, New(query.Compile("x", domain.SearchOptions{})))
}

func TestLiteralOverlaySkipsToNextMatch(t *testing.T) {
	o := New(query.Compile("ab", domain.SearchOptions{}))
	tokens := tokenize(t, o, "xxAByyab")

	assert.Equal(t, []token{
		{"xx", ""},
		{"AB", StyleMatch},
		{"yy", ""},
		{"ab", StyleMatch},
	}, tokens)
}

func TestPatternOverlayConsumesOneRuneOnMiss(t *testing.T) {
	o := New(query.Compile("[0-9]+", domain.SearchOptions{UsePattern: true}))
	tokens := tokenize(t, o, "a12é3")

	assert.Equal(t, []token{
		{"a", ""},
		{"12", StyleMatch},
		{"é", ""},
		{"3", StyleMatch},
	}, tokens)
}

func TestWholeWordOverlay(t *testing.T) {
	o := New(query.Compile("cat", domain.SearchOptions{WholeWord: true}))

	assert.Empty(t, matched(tokenize(t, o, "category")))
	assert.Equal(t, []string{"cat"}, matched(tokenize(t, o, "the cat sat")))
}

func TestOverlayHonoursCaseSensitivity(t *testing.T) {
	o := New(query.Compile("Go", domain.SearchOptions{CaseSensitive: true}))
	assert.Equal(t, []string{"Go"}, matched(tokenize(t, o, "go Go GO")))
}

func TestOverlayRecomputesPerLine(t *testing.T) {
	o := New(query.Compile("a", domain.SearchOptions{}))
	assert.Len(t, matched(tokenize(t, o, "aaa")), 3)
	assert.Len(t, matched(tokenize(t, o, "bab")), 1)
}

func TestStream(t *testing.T) {
	s := NewStream("hé")
	assert.Equal(t, 'h', s.Peek())
	assert.Equal(t, 'h', s.Next())
	assert.Equal(t, 'é', s.Next())
	assert.True(t, s.EOL())
	assert.Equal(t, "hé", s.Current())
}
