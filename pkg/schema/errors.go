package schema

import (
	"errors"
	"fmt"
)

// ErrUntranslatable is returned when the JSON parser fails in a way that
// carries no position. The parser's error format is assumed stable, so
// this indicates a bug rather than bad input.
var ErrUntranslatable = errors.New("unrecognized JSON parser error")

// Precondition failure reasons.
const (
	ReasonNotObject      = "not_object"
	ReasonMissingType    = "missing_type"
	ReasonNonNumericType = "non_numeric_type"
	ReasonUnknownType    = "unknown_type"
)

var preconditionMessages = map[string]string{
	ReasonNotObject:      `JSON must have a root object and have "type" property`,
	ReasonMissingType:    `JSON root object must have "type" property`,
	ReasonNonNumericType: `JSON must have "type" property with number value`,
	ReasonUnknownType:    `JSON must have 0, 1 or 2 as "type" value`,
}

// PreconditionError reports a document that does not say which schema
// applies to it.
type PreconditionError struct {
	Reason  string
	Message string
}

func newPreconditionError(reason string) *PreconditionError {
	return &PreconditionError{Reason: reason, Message: preconditionMessages[reason]}
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return e.Message
}

// SyntaxError is a JSON parse failure. Line and Column are zero-based;
// Column counts characters. Offset is the byte offset of the defect.
type SyntaxError struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
}

// Error implements the error interface. Positions are printed one-based.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d column %d", e.Message, e.Line+1, e.Column+1)
}

// ViolationError carries the schema violations of a well-formed document,
// in the order the validation engine reported them.
type ViolationError struct {
	Variant    Variant
	Violations []Violation
}

// Error implements the error interface.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("JSON file violates the schema (%s): %d violation(s)", e.Variant, len(e.Violations))
}

// CompileError is returned when a schema document cannot be compiled.
// Schema documents are trusted, so this is logged as an invariant
// violation and never retried.
type CompileError struct {
	Variant Variant
	Name    string
	Err     error
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile schema %s (%s): %v", e.Name, e.Variant, e.Err)
}

// Unwrap returns the engine error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
