package schema

import (
	"friendsofmonika/masvalidator/pkg/position"
)

// LocatedViolation is a violation with the source position of the value
// it is about.
type LocatedViolation struct {
	Violation

	// Pointer is the instance location that was found in the source. It
	// is an ancestor of InstanceLocation when the violating value does
	// not exist, as with a missing required property.
	Pointer string `json:"pointer"`

	// Position is where the located value starts, or nil when the
	// document could not be mapped.
	Position *position.Position `json:"position,omitempty"`
}

// Locate attaches source positions to violations of the document raw.
// The violations are returned in their original order.
func Locate(raw []byte, violations []Violation) []LocatedViolation {
	located := make([]LocatedViolation, len(violations))

	sm, err := position.BuildSourceMap(string(raw))
	for i, v := range violations {
		located[i] = LocatedViolation{Violation: v, Pointer: v.InstanceLocation}
		if err != nil {
			continue
		}
		pointer, mapping := sm.Nearest(v.InstanceLocation)
		pos := mapping.Value
		if mapping.Key != nil {
			pos = *mapping.Key
		}
		located[i].Pointer = pointer
		located[i].Position = &pos
	}
	return located
}
