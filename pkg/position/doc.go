// Package position maps offsets and JSON pointers in a text document to
// zero-based line/column positions.
//
// Index answers "where is byte N"; SourceMap answers "where is the value at
// /arm_split/0" and is used to place schema violations, whose locations are
// JSON pointers, back into the document a user submitted.
package position
