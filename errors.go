// errors.go — error taxonomy and caret-snippet rendering.
//
// Jarlang failures come in exactly three kinds, one per pipeline stage:
//
//	LexicalError — raised only by the tokenizer (illegal character,
//	               unterminated string or block comment).
//	SyntaxError  — raised only by the parser (unexpected token, missing
//	               delimiter, input exhausted mid-rule).
//	RuntimeError — raised during evaluation or module loading (undefined
//	               variable, division by zero, type mismatch, import cycle,
//	               module not found).
//
// All three render as "<Kind>: <message> at line L, column C (offset O)"
// with a 1-based line and 0-based column/offset. None is recovered inside
// the core: every error propagates unchanged to the caller, and an import's
// internal syntax error surfaces as that same SyntaxError so callers can
// still match the original kind.
//
// WrapErrorWithSource upgrades any of the three into a multi-line error with
// numbered context lines and a caret under the offending column. It is a
// display-boundary helper for the CLI/REPL; the core never calls it.
package jarlang

import (
	"fmt"
	"strings"
)

// LexicalError reports an invalid character or unterminated literal.
type LexicalError struct {
	Msg string
	Pos Position
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("LexicalError: %s at %s", e.Msg, e.Pos)
}

// SyntaxError reports a grammar violation. Index is the token index at which
// the parse failed; Pos is that token's start position.
type SyntaxError struct {
	Msg   string
	Index int
	Pos   Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: %s at %s", e.Msg, e.Pos)
}

// RuntimeError reports an evaluation or module-loading failure. Pos is the
// start of the AST node being evaluated when the failure occurred.
type RuntimeError struct {
	Msg string
	Pos Position
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RuntimeError: %s at %s", e.Msg, e.Pos)
}

// WrapErrorWithSource returns an error whose message includes a numbered
// source snippet with a caret under the error column. Errors that are not
// one of the three Jarlang kinds are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	var pos Position
	switch e := err.(type) {
	case *LexicalError:
		pos = e.Pos
	case *SyntaxError:
		pos = e.Pos
	case *RuntimeError:
		pos = e.Pos
	default:
		return err
	}
	return fmt.Errorf("%s\n\n%s", err.Error(), renderSnippet(src, pos))
}

// renderSnippet shows the error line with up to one line of context on each
// side and a caret under the column. Out-of-range positions are clamped so
// rendering never fails.
func renderSnippet(src string, pos Position) string {
	lines := strings.Split(src, "\n")
	line := pos.Line
	if line < 0 {
		line = 0
	}
	if line >= len(lines) {
		line = len(lines) - 1
	}

	first := line - 1
	if first < 0 {
		first = 0
	}
	last := line + 1
	if last >= len(lines) {
		last = len(lines) - 1
	}

	col := pos.Col
	if col > len(lines[line]) {
		col = len(lines[line])
	}

	width := len(fmt.Sprintf("%d", last+1))
	var b strings.Builder
	for i := first; i <= last; i++ {
		fmt.Fprintf(&b, " %*d | %s\n", width, i+1, lines[i])
		if i == line {
			fmt.Fprintf(&b, " %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", col))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
