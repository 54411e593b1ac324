// ast.go — the closed set of syntax-tree node kinds.
//
// The whole grammar fits in one tagged Node struct: the Kind field selects
// which of the payload fields are meaningful, and a single switch in the
// evaluator handles every case. Nodes own their children exclusively (a
// strict tree), are built once per parse, and are immutable afterwards; a
// loop body is re-evaluated by reference, never re-parsed.
package jarlang

import (
	"fmt"
	"strings"
)

// NodeKind discriminates the Node payload.
type NodeKind int

const (
	NodeNumber  NodeKind = iota // Text: literal digits (converted at eval time)
	NodeString                  // Text: raw string contents
	NodeBoolean                 // BoolVal
	NodeIdent                   // Text: variable name
	NodeUnary                   // Op, Expr
	NodeBinary                  // Op, Left, Right
	NodeAssign                  // Text: name, Expr: value, IsDecl, IsVowed
	NodeChant                   // Expr
	NodeIf                      // Cond, Body, Else (Else may be nil)
	NodeWhile                   // Cond, Body
	NodeBlock                   // Stmts
	NodeImport                  // Text: module path
)

// Node is a syntax-tree node. Which fields are set depends on Kind; see the
// NodeKind constants. Pos is the start of the node's first token and feeds
// runtime diagnostics.
type Node struct {
	Kind NodeKind
	Pos  Position

	Text    string
	BoolVal bool
	Op      TokenType

	Expr  *Node
	Left  *Node
	Right *Node
	Cond  *Node
	Body  *Node
	Else  *Node
	Stmts []*Node
}

// String renders the node in the language's traditional debug shape, e.g.
// " {3}(commune: '+'){5}" for 3 + 5.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case NodeNumber:
		return n.Text
	case NodeString:
		return fmt.Sprintf("%q", n.Text)
	case NodeBoolean:
		return fmt.Sprintf("%v", n.BoolVal)
	case NodeIdent:
		return n.Text
	case NodeUnary:
		return fmt.Sprintf("(%s){%s}", n.Op, n.Expr)
	case NodeBinary:
		return fmt.Sprintf(" {%s}(%s: '%s'){%s}", n.Left, n.Op, opSymbol(n.Op), n.Right)
	case NodeAssign:
		if n.IsDecl() {
			return fmt.Sprintf("(wield %s %s)", n.Text, n.Expr)
		}
		return fmt.Sprintf("(%s = %s)", n.Text, n.Expr)
	case NodeChant:
		return fmt.Sprintf("(chant %s)", n.Expr)
	case NodeIf:
		if n.Else != nil {
			return fmt.Sprintf("(judge %s %s orjudge %s)", n.Cond, n.Body, n.Else)
		}
		return fmt.Sprintf("(judge %s %s)", n.Cond, n.Body)
	case NodeWhile:
		return fmt.Sprintf("(lest %s %s)", n.Cond, n.Body)
	case NodeBlock:
		parts := make([]string, len(n.Stmts))
		for i, s := range n.Stmts {
			parts[i] = s.String()
		}
		return "{" + strings.Join(parts, "; ") + "}"
	case NodeImport:
		return fmt.Sprintf("(summon %q)", n.Text)
	default:
		return fmt.Sprintf("<node kind=%d>", int(n.Kind))
	}
}

// Assignment flags live in the token type of the introducing keyword so the
// debug rendering and evaluator can distinguish declaration forms.
//
//	WIELD / VOW / SACRED — declaration (binds locally, shadows)
//	ASSIGN               — reassignment (requires an existing binding)
func (n *Node) IsDecl() bool {
	return n.Op == WIELD || n.Op == VOW || n.Op == SACRED
}

// IsVowed reports whether the declaration intends immutability (vow/sacred).
// The intent is recorded on the binding but deliberately not enforced.
func (n *Node) IsVowed() bool {
	return n.Op == VOW || n.Op == SACRED
}
