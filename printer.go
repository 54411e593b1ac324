// printer.go — display helpers for tooling (CLI, REPL).
package jarlang

import "strings"

// FormatTokens renders a token slice in the language's traditional listing
// shape, e.g. [int: '3', commune: '+', int: '5', end].
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FormatAST renders the root node in the debug tree shape used by the
// REPL's !tokens command alongside the token listing.
func FormatAST(root *Node) string {
	return root.String()
}
