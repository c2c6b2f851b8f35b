package position

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Mapping locates one JSON value in its source text.
type Mapping struct {
	// Key is the position of the property name, for object members.
	Key *Position `json:"key,omitempty"`

	// Value is the position of the first byte of the value.
	Value Position `json:"value"`

	// ValueEnd is the position just after the last byte of the value.
	ValueEnd Position `json:"valueEnd"`
}

// SourceMap maps JSON pointers (RFC 6901) to source positions. The root
// value is stored under the empty pointer "".
type SourceMap struct {
	index    *Index
	pointers map[string]Mapping
}

// BuildSourceMap parses a JSON document and records the position of every
// value in it. The text must be valid JSON.
func BuildSourceMap(text string) (*SourceMap, error) {
	b := &mapBuilder{
		text:     text,
		dec:      json.NewDecoder(strings.NewReader(text)),
		index:    NewIndex(text),
		pointers: make(map[string]Mapping),
	}
	b.dec.UseNumber()

	if err := b.value("", nil); err != nil {
		return nil, err
	}
	if _, err := b.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	return &SourceMap{index: b.index, pointers: b.pointers}, nil
}

// Lookup returns the mapping for a JSON pointer.
func (m *SourceMap) Lookup(pointer string) (Mapping, bool) {
	mapping, ok := m.pointers[pointer]
	return mapping, ok
}

// Nearest returns the mapping for pointer, or for its closest existing
// ancestor. Violations about missing properties point at the object that
// should contain them, which is what this resolves to.
func (m *SourceMap) Nearest(pointer string) (string, Mapping) {
	for {
		if mapping, ok := m.pointers[pointer]; ok {
			return pointer, mapping
		}
		i := strings.LastIndexByte(pointer, '/')
		if i < 0 {
			return "", m.pointers[""]
		}
		pointer = pointer[:i]
	}
}

// Index returns the line index over the mapped text.
func (m *SourceMap) Index() *Index {
	return m.index
}

// Len returns the number of mapped values.
func (m *SourceMap) Len() int {
	return len(m.pointers)
}

// EscapePointerToken escapes a single reference token per RFC 6901.
func EscapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	return strings.ReplaceAll(token, "/", "~1")
}

type mapBuilder struct {
	text     string
	dec      *json.Decoder
	index    *Index
	pointers map[string]Mapping
}

// skip returns the offset of the next significant byte at or after offset.
// Member and element separators are not significant.
func (b *mapBuilder) skip(offset int) int {
	for offset < len(b.text) {
		switch b.text[offset] {
		case ' ', '\t', '\r', '\n', ',', ':':
			offset++
		default:
			return offset
		}
	}
	return offset
}

func (b *mapBuilder) value(pointer string, key *Position) error {
	start := b.skip(int(b.dec.InputOffset()))

	tok, err := b.dec.Token()
	if err != nil {
		return err
	}

	if delim, ok := tok.(json.Delim); ok {
		switch delim {
		case '{':
			for b.dec.More() {
				keyPos := b.index.Position(b.skip(int(b.dec.InputOffset())))
				keyTok, err := b.dec.Token()
				if err != nil {
					return err
				}
				name, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("expected object key at %s", keyPos)
				}
				if err := b.value(pointer+"/"+EscapePointerToken(name), &keyPos); err != nil {
					return err
				}
			}
		case '[':
			for i := 0; b.dec.More(); i++ {
				if err := b.value(pointer+"/"+strconv.Itoa(i), nil); err != nil {
					return err
				}
			}
		}
		// Closing delimiter.
		if _, err := b.dec.Token(); err != nil {
			return err
		}
	}

	b.pointers[pointer] = Mapping{
		Key:      key,
		Value:    b.index.Position(start),
		ValueEnd: b.index.Position(int(b.dec.InputOffset())),
	}
	return nil
}
