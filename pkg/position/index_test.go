package position

import "testing"

func TestIndexPosition(t *testing.T) {
	text := "{\n  \"a\": 1,\n  \"é\": 2\n}"
	ix := NewIndex(text)

	tests := []struct {
		name   string
		offset int
		line   int
		column int
	}{
		{name: "start", offset: 0, line: 0, column: 0},
		{name: "first line end", offset: 1, line: 0, column: 1},
		{name: "second line start", offset: 2, line: 1, column: 0},
		{name: "key on second line", offset: 4, line: 1, column: 2},
		{name: "after multibyte rune", offset: 19, line: 2, column: 6},
		{name: "closing brace", offset: len(text) - 1, line: 3, column: 0},
		{name: "end of input", offset: len(text), line: 3, column: 1},
		{name: "negative clamps", offset: -5, line: 0, column: 0},
		{name: "past end clamps", offset: len(text) + 10, line: 3, column: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := ix.Position(tt.offset)
			if pos.Line != tt.line || pos.Column != tt.column {
				t.Errorf("Position(%d) = %d:%d, want %d:%d", tt.offset, pos.Line, pos.Column, tt.line, tt.column)
			}
		})
	}
}

func TestIndexLine(t *testing.T) {
	ix := NewIndex("one\r\ntwo\nthree")

	if got := ix.Lines(); got != 3 {
		t.Fatalf("Lines() = %d, want 3", got)
	}

	want := []string{"one", "two", "three"}
	for i, w := range want {
		if got := ix.Line(i); got != w {
			t.Errorf("Line(%d) = %q, want %q", i, got, w)
		}
	}
	if got := ix.Line(7); got != "" {
		t.Errorf("Line(7) = %q, want empty", got)
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 0, Column: 4}
	if got := p.String(); got != "1:5" {
		t.Errorf("String() = %q, want %q", got, "1:5")
	}
}
