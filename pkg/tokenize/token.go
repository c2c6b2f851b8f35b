package tokenize

import (
	"context"
	"fmt"
)

// Token is one lexical unit of a script. Type is an opaque code from the
// lexer's symbol table; use Roles to interpret it.
type Token struct {
	Type   int
	Lexeme string
	Offset int
}

// Roles maps the token roles list extraction cares about to lexer type
// codes.
type Roles struct {
	Identifier int
	String     int
	ListOpen   int
	ListClose  int
}

// Tokenizer converts script source into an ordered token sequence.
//
// Tokenize blocks until the whole sequence is available. Implementations
// never return partial results.
type Tokenizer interface {
	Tokenize(ctx context.Context, source string) ([]Token, error)
	Roles() Roles
}

// Error is returned when the source cannot be tokenized.
type Error struct {
	Offset int
	Err    error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("tokenize failed at offset %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying lexer error.
func (e *Error) Unwrap() error {
	return e.Err
}
