// parser_test.go
package jarlang

import (
	"reflect"
	"strings"
	"testing"
)

func parse(t *testing.T, src string) *Node {
	t.Helper()
	ts := toks(t, src)
	root, err := Parse(ts)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return root
}

// firstStmt unwraps the root Block around a single-statement source.
func firstStmt(t *testing.T, src string) *Node {
	t.Helper()
	root := parse(t, src)
	if root.Kind != NodeBlock || len(root.Stmts) != 1 {
		t.Fatalf("expected a single-statement block, got %s", root)
	}
	return root.Stmts[0]
}

func wantSyntaxErr(t *testing.T, src, substr string) *SyntaxError {
	t.Helper()
	ts := toks(t, src)
	_, err := Parse(ts)
	if err == nil {
		t.Fatalf("expected syntax error for %q", src)
	}
	se, ok := err.(*SyntaxError)
	if !ok {
		t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
	}
	if !strings.Contains(se.Msg, substr) {
		t.Fatalf("error %q does not mention %q", se.Msg, substr)
	}
	return se
}

func Test_Parser_Precedence_MulBeforeAdd(t *testing.T) {
	n := firstStmt(t, `2 + 4 * 3`)
	if n.Kind != NodeBinary || n.Op != PLUS {
		t.Fatalf("root should be '+', got %s", n)
	}
	if n.Right.Kind != NodeBinary || n.Right.Op != MUL {
		t.Fatalf("right child should be '*', got %s", n.Right)
	}
}

func Test_Parser_Parens_OverridePrecedence(t *testing.T) {
	n := firstStmt(t, `(2 + 4) * 3`)
	if n.Op != MUL || n.Left.Op != PLUS {
		t.Fatalf("grouping not honored: %s", n)
	}
}

func Test_Parser_Power_RightAssociative(t *testing.T) {
	n := firstStmt(t, `2 ^ 3 ^ 2`)
	if n.Op != POW || n.Left.Kind != NodeNumber || n.Right.Op != POW {
		t.Fatalf("2^3^2 should parse as 2^(3^2), got %s", n)
	}
}

func Test_Parser_AddSub_LeftAssociative(t *testing.T) {
	n := firstStmt(t, `10 - 3 - 2`)
	if n.Op != MINUS || n.Left.Op != MINUS || n.Right.Text != "2" {
		t.Fatalf("10-3-2 should parse as (10-3)-2, got %s", n)
	}
}

func Test_Parser_Comparison_BindsLoosest(t *testing.T) {
	n := firstStmt(t, `1 + 2 < 3 * 4`)
	if n.Op != LESS || n.Left.Op != PLUS || n.Right.Op != MUL {
		t.Fatalf("comparison should bind loosest: %s", n)
	}
}

func Test_Parser_Unary_Nested(t *testing.T) {
	n := firstStmt(t, `--5`)
	if n.Kind != NodeUnary || n.Expr.Kind != NodeUnary || n.Expr.Expr.Text != "5" {
		t.Fatalf("nested unary minus: %s", n)
	}
}

func Test_Parser_Declaration(t *testing.T) {
	n := firstStmt(t, `wield x 5`)
	if n.Kind != NodeAssign || !n.IsDecl() || n.IsVowed() || n.Text != "x" {
		t.Fatalf("wield declaration: %s", n)
	}
}

func Test_Parser_VowAndSacred_AreVowed(t *testing.T) {
	if n := firstStmt(t, `vow x 5`); !n.IsDecl() || !n.IsVowed() {
		t.Fatalf("vow should be a vowed declaration: %s", n)
	}
	if n := firstStmt(t, `sacred y "rune"`); !n.IsDecl() || !n.IsVowed() {
		t.Fatalf("sacred should be a vowed declaration: %s", n)
	}
}

func Test_Parser_Reassignment(t *testing.T) {
	n := firstStmt(t, `x = x + 1`)
	if n.Kind != NodeAssign || n.IsDecl() || n.Op != ASSIGN {
		t.Fatalf("reassignment: %s", n)
	}
	if n.Expr.Kind != NodeBinary || n.Expr.Op != PLUS {
		t.Fatalf("reassignment value: %s", n.Expr)
	}
}

func Test_Parser_IfElseChain(t *testing.T) {
	n := firstStmt(t, `judge x < 0 chant "neg" orjudge judge x == 0 chant "zero" orjudge chant "pos"`)
	if n.Kind != NodeIf || n.Else == nil {
		t.Fatalf("if with else: %s", n)
	}
	if n.Else.Kind != NodeIf || n.Else.Else == nil || n.Else.Else.Kind != NodeChant {
		t.Fatalf("orjudge chain should nest as else-if: %s", n.Else)
	}
}

func Test_Parser_WhileWithBlock(t *testing.T) {
	n := firstStmt(t, `lest i < 3 { chant i; i = i + 1 }`)
	if n.Kind != NodeWhile || n.Body.Kind != NodeBlock || len(n.Body.Stmts) != 2 {
		t.Fatalf("while with block body: %s", n)
	}
}

func Test_Parser_Import(t *testing.T) {
	n := firstStmt(t, `summon "lib/runes"`)
	if n.Kind != NodeImport || n.Text != "lib/runes" {
		t.Fatalf("summon: %s", n)
	}
}

func Test_Parser_SemicolonsSeparate(t *testing.T) {
	root := parse(t, `wield a 1; wield b 2;; chant a + b`)
	if len(root.Stmts) != 3 {
		t.Fatalf("want 3 statements, got %d: %s", len(root.Stmts), root)
	}
}

func Test_Parser_Errors(t *testing.T) {
	wantSyntaxErr(t, `(1 + 2`, "expected ')'")
	wantSyntaxErr(t, `wield 5 5`, "expected variable name")
	wantSyntaxErr(t, `summon runes`, "expected module path string")
	wantSyntaxErr(t, `{ chant 1`, "expected '}'")
	wantSyntaxErr(t, `1 +`, "unexpected end of input")
	wantSyntaxErr(t, `forge f ( )`, "'forge'")
	wantSyntaxErr(t, `mend 5`, "'mend'")
	wantSyntaxErr(t, `endure x 10`, "'endure'")
}

func Test_Parser_ErrorCarriesPosition(t *testing.T) {
	se := wantSyntaxErr(t, `wield x (1 + `, "unexpected end of input")
	if se.Pos.Line != 0 || se.Pos.Offset == 0 {
		t.Fatalf("error should point into line 1, got %+v", se.Pos)
	}
}

func Test_Parser_Idempotent(t *testing.T) {
	ts := toks(t, `wield x 1 lest x < 5 { x = x + 1 } chant x`)
	a, err := Parse(ts)
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	b, err := Parse(ts)
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("re-parsing the same tokens should yield equal trees\nfirst:  %s\nsecond: %s", a, b)
	}
}

func Test_Parser_EmptyTokens(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatalf("expected error for empty token slice")
	}
}

func Test_Parser_DebugShape(t *testing.T) {
	n := firstStmt(t, `3 + 5`)
	if got := n.String(); got != " {3}(commune: '+'){5}" {
		t.Fatalf("debug rendering: %q", got)
	}
}
