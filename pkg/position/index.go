package position

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position is a zero-based location in a text document.
// Column counts runes from the start of the line.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// String returns "line:column" using one-based numbers, the form editors
// expect.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line+1, p.Column+1)
}

// Index maps byte offsets of a text document to line/column positions.
// It is immutable and safe for concurrent use.
type Index struct {
	text       string
	lineStarts []int
}

// NewIndex builds an index over text. Lines are terminated by '\n'; a
// preceding '\r' is treated as part of the line.
func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}
}

// Lines returns the number of lines in the document.
func (ix *Index) Lines() int {
	return len(ix.lineStarts)
}

// Position returns the position of the byte at offset. Offsets are clamped
// to [0, len(text)], so the end-of-input position is addressable.
func (ix *Index) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}

	// Last line whose start is <= offset.
	line := sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	}) - 1

	start := ix.lineStarts[line]
	return Position{
		Offset: offset,
		Line:   line,
		Column: utf8.RuneCountInString(ix.text[start:offset]),
	}
}

// Line returns the text of the zero-based line without its terminator.
func (ix *Index) Line(line int) string {
	if line < 0 || line >= len(ix.lineStarts) {
		return ""
	}
	start := ix.lineStarts[line]
	end := len(ix.text)
	if line+1 < len(ix.lineStarts) {
		end = ix.lineStarts[line+1] - 1
	}
	if end > start && ix.text[end-1] == '\r' {
		end--
	}
	return ix.text[start:end]
}
