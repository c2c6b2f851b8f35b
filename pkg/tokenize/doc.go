// Package tokenize splits Ren'Py/Python script text into typed tokens.
//
// Tokens carry an opaque type code from a participle lexer. Callers that
// need to recognise identifiers, string literals and list brackets use the
// Roles mapping instead of hard-coding codes:
//
//	w := tokenize.NewWorker(logger)
//	tokens, err := w.Tokenize(ctx, script)
//	roles := w.Roles()
//	for _, tok := range tokens {
//		if tok.Type == roles.String {
//			...
//		}
//	}
//
// Each Tokenize call runs in its own goroutine and returns the full token
// sequence or an error, never a partial result.
package tokenize
