package nickname

import "friendsofmonika/masvalidator/pkg/tokenize"

// ExtractListLiteral returns the decoded string elements of the first list
// literal assigned to the identifier name.
//
// The scan starts at the first identifier token whose lexeme equals name.
// The first list-open and the first list-close tokens after it are located
// independently. Every string literal strictly between the identifier and
// the list-close token is collected, so a string that sits between the
// identifier and the opening bracket is included as well.
//
// A missing identifier, list-open or list-close yields an empty slice.
func ExtractListLiteral(tokens []tokenize.Token, roles tokenize.Roles, name string) []string {
	def := -1
	for i, tok := range tokens {
		if tok.Type == roles.Identifier && tok.Lexeme == name {
			def = i
			break
		}
	}
	if def < 0 {
		return []string{}
	}

	openIdx, closeIdx := -1, -1
	for i := def + 1; i < len(tokens); i++ {
		if openIdx < 0 && tokens[i].Type == roles.ListOpen {
			openIdx = i
		}
		if closeIdx < 0 && tokens[i].Type == roles.ListClose {
			closeIdx = i
		}
		if openIdx >= 0 && closeIdx >= 0 {
			break
		}
	}
	if openIdx < 0 || closeIdx < 0 {
		return []string{}
	}

	values := []string{}
	for _, tok := range tokens[def+1 : closeIdx] {
		if tok.Type == roles.String {
			values = append(values, DecodeStringLiteral(tok.Lexeme))
		}
	}
	return values
}

// DecodeStringLiteral strips the quoting of a string literal lexeme. A
// leading r or b prefix is removed along with the opening quote; the last
// character is always treated as the closing quote. Escape sequences are
// left as written, which is what raw regex sources need.
func DecodeStringLiteral(lexeme string) string {
	lead := 1
	if lexeme != "" && (lexeme[0] == 'r' || lexeme[0] == 'b') {
		lead = 2
	}
	if len(lexeme) < lead+1 {
		return ""
	}
	return lexeme[lead : len(lexeme)-1]
}
