package position

import "testing"

const sampleDocument = `{
  "type": 0,
  "name": "ribbon",
  "arm_split": ["left", "right"],
  "a/b": {"~x": true}
}`

func TestBuildSourceMap(t *testing.T) {
	sm, err := BuildSourceMap(sampleDocument)
	if err != nil {
		t.Fatalf("BuildSourceMap() error = %v", err)
	}

	tests := []struct {
		pointer string
		line    int
		column  int
		hasKey  bool
	}{
		{pointer: "", line: 0, column: 0},
		{pointer: "/type", line: 1, column: 10, hasKey: true},
		{pointer: "/name", line: 2, column: 10, hasKey: true},
		{pointer: "/arm_split", line: 3, column: 15, hasKey: true},
		{pointer: "/arm_split/0", line: 3, column: 16},
		{pointer: "/arm_split/1", line: 3, column: 24},
		{pointer: "/a~1b", line: 4, column: 9, hasKey: true},
		{pointer: "/a~1b/~0x", line: 4, column: 16, hasKey: true},
	}

	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			m, ok := sm.Lookup(tt.pointer)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.pointer)
			}
			if m.Value.Line != tt.line || m.Value.Column != tt.column {
				t.Errorf("value at %d:%d, want %d:%d", m.Value.Line, m.Value.Column, tt.line, tt.column)
			}
			if (m.Key != nil) != tt.hasKey {
				t.Errorf("has key = %v, want %v", m.Key != nil, tt.hasKey)
			}
		})
	}

	if sm.Len() != len(tests) {
		t.Errorf("Len() = %d, want %d", sm.Len(), len(tests))
	}
}

func TestSourceMapKeyAndEnd(t *testing.T) {
	sm, err := BuildSourceMap(sampleDocument)
	if err != nil {
		t.Fatalf("BuildSourceMap() error = %v", err)
	}

	m, _ := sm.Lookup("/name")
	if m.Key.Line != 2 || m.Key.Column != 2 {
		t.Errorf("key at %d:%d, want 2:2", m.Key.Line, m.Key.Column)
	}
	if m.ValueEnd.Column != 18 {
		t.Errorf("value end column = %d, want 18", m.ValueEnd.Column)
	}

	root, _ := sm.Lookup("")
	if root.ValueEnd.Offset != len(sampleDocument) {
		t.Errorf("root end offset = %d, want %d", root.ValueEnd.Offset, len(sampleDocument))
	}
}

func TestSourceMapNearest(t *testing.T) {
	sm, err := BuildSourceMap(sampleDocument)
	if err != nil {
		t.Fatalf("BuildSourceMap() error = %v", err)
	}

	tests := []struct {
		pointer string
		want    string
	}{
		{pointer: "/arm_split/1", want: "/arm_split/1"},
		{pointer: "/arm_split/5", want: "/arm_split"},
		{pointer: "/missing/deep", want: ""},
		{pointer: "", want: ""},
	}

	for _, tt := range tests {
		got, _ := sm.Nearest(tt.pointer)
		if got != tt.want {
			t.Errorf("Nearest(%q) = %q, want %q", tt.pointer, got, tt.want)
		}
	}
}

func TestBuildSourceMapInvalid(t *testing.T) {
	for _, text := range []string{`{"a": 1,}`, `[1, 2`, `{} {}`, ``} {
		if _, err := BuildSourceMap(text); err == nil {
			t.Errorf("BuildSourceMap(%q) expected error", text)
		}
	}
}

func TestEscapePointerToken(t *testing.T) {
	if got := EscapePointerToken("a/~b"); got != "a~1~0b" {
		t.Errorf("EscapePointerToken() = %q, want %q", got, "a~1~0b")
	}
}
