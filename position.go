package jarlang

import "fmt"

// Position is an immutable location within a source text. Offset and Col are
// 0-based; Line is 0-based internally and rendered 1-based for display.
type Position struct {
	Offset int
	Line   int
	Col    int
}

// Advance returns the position one byte past p, given the byte being stepped
// over. Newlines bump the line counter and reset the column.
func (p Position) Advance(ch byte) Position {
	p.Offset++
	p.Col++
	if ch == '\n' {
		p.Line++
		p.Col = 0
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", p.Line+1, p.Col, p.Offset)
}
