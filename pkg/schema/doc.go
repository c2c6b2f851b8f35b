// Package schema validates sprite JSON documents against the JSON Schemas
// published in the sprite schema repository.
//
// A document's "type" field selects one of four schema variants. Schemas
// are fetched on first use, compiled, and kept for the life of the
// process by a Registry. A Validator runs the whole pipeline:
//
//	parse -> resolve variant -> obtain compiled schema -> validate
//
// Each stage fails with its own error type: *SyntaxError,
// *PreconditionError, *CompileError (or a fetch error) and
// *ViolationError. Violations are passed through as the validation engine
// reports them.
package schema
