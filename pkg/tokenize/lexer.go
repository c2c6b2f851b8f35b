package tokenize

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Symbol names of the script lexer.
const (
	SymbolComment    = "Comment"
	SymbolString     = "String"
	SymbolName       = "Name"
	SymbolNumber     = "Number"
	SymbolListOpen   = "ListOpen"
	SymbolListClose  = "ListClose"
	SymbolPunct      = "Punct"
	SymbolWhitespace = "Whitespace"
	SymbolNewline    = "Newline"
	SymbolOther      = "Other"
)

// scriptLexer tokenizes Ren'Py/Python script text. Rules are tried in
// order, so prefixed strings must precede names and triple quotes must
// precede single quotes.
var scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: SymbolComment, Pattern: `#[^\r\n]*`},
	{Name: SymbolString, Pattern: `(?s)[rRbBuUfF]{0,2}(?:"""(?:[^\\]|\\.)*?"""|'''(?:[^\\]|\\.)*?'''|"(?:[^"\\\r\n]|\\.)*"|'(?:[^'\\\r\n]|\\.)*')`},
	{Name: SymbolName, Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: SymbolNumber, Pattern: `(?:0[xXoObB][0-9a-fA-F_]+|\d[\d_]*(?:\.[\d_]*)?(?:[eE][+-]?\d+)?[jJ]?)`},
	{Name: SymbolListOpen, Pattern: `\[`},
	{Name: SymbolListClose, Pattern: `\]`},
	{Name: SymbolPunct, Pattern: `[-+*/%@&|^~<>=!.,:;(){}$]+`},
	{Name: SymbolWhitespace, Pattern: `[ \t\f]+|\\\r?\n`},
	{Name: SymbolNewline, Pattern: `\r?\n`},
	{Name: SymbolOther, Pattern: `.`},
})

// ScriptRoles returns the role mapping of the script lexer.
func ScriptRoles() Roles {
	symbols := scriptLexer.Symbols()
	return Roles{
		Identifier: int(symbols[SymbolName]),
		String:     int(symbols[SymbolString]),
		ListOpen:   int(symbols[SymbolListOpen]),
		ListClose:  int(symbols[SymbolListClose]),
	}
}

// lex runs the script lexer over source and returns every significant
// token. Whitespace, newlines and comments are dropped.
func lex(source string) ([]Token, error) {
	symbols := scriptLexer.Symbols()
	elide := map[lexer.TokenType]bool{
		symbols[SymbolWhitespace]: true,
		symbols[SymbolNewline]:    true,
		symbols[SymbolComment]:    true,
	}

	lx, err := scriptLexer.LexString("", source)
	if err != nil {
		return nil, &Error{Err: err}
	}

	var tokens []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			offset := 0
			var perr *lexer.Error
			if errors.As(err, &perr) {
				offset = perr.Pos.Offset
			}
			return nil, &Error{Offset: offset, Err: err}
		}
		if tok.EOF() {
			return tokens, nil
		}
		if elide[tok.Type] {
			continue
		}
		tokens = append(tokens, Token{
			Type:   int(tok.Type),
			Lexeme: tok.Value,
			Offset: tok.Pos.Offset,
		})
	}
}

// SymbolNameOf returns the lexer symbol name of a token type code, or
// "Unknown".
func SymbolNameOf(code int) string {
	for name, tt := range scriptLexer.Symbols() {
		if int(tt) == code {
			return name
		}
	}
	return fmt.Sprintf("Unknown(%d)", code)
}
