// lexer_test.go
package jarlang

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Tokenize("<test>", src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func Test_Lexer_Declaration(t *testing.T) {
	got := wantTypes(t, `wield strength 42`, []TokenType{WIELD, IDENT, INT})
	if got[1].Lexeme != "strength" || got[2].Lexeme != "42" {
		t.Fatalf("unexpected lexemes: %q, %q", got[1].Lexeme, got[2].Lexeme)
	}
}

func Test_Lexer_AllKeywords(t *testing.T) {
	wantTypes(t, `wield vow sacred chant judge orjudge lest endure forge mend summon`,
		[]TokenType{WIELD, VOW, SACRED, CHANT, JUDGE, ORJUDGE, LEST, ENDURE, FORGE, MEND, SUMMON})
}

func Test_Lexer_Operators(t *testing.T) {
	wantTypes(t, `+ - * / ^ = == != < <= > >= ! ( ) { } , : ;`,
		[]TokenType{PLUS, MINUS, MUL, DIV, POW, ASSIGN, EQ, NEQ, LESS, LESSEQ,
			GREATER, GREATEREQ, NOT, LROUND, RROUND, LCURLY, RCURLY, COMMA, COLON, SEMI})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, `3 3.14 0.5`, []TokenType{INT, FLOAT, FLOAT})
	if got[0].Lexeme != "3" || got[1].Lexeme != "3.14" || got[2].Lexeme != "0.5" {
		t.Fatalf("unexpected number lexemes: %v", got[:3])
	}
}

// A second '.' ends the number; the dangling dot is then an illegal character.
func Test_Lexer_SecondDotTerminatesNumber(t *testing.T) {
	_, err := Tokenize("<test>", `1.2.3`)
	if err == nil {
		t.Fatalf("expected error for dangling '.'")
	}
	le, ok := err.(*LexicalError)
	if !ok {
		t.Fatalf("expected *LexicalError, got %T: %v", err, err)
	}
	if !strings.Contains(le.Msg, "illegal character") {
		t.Fatalf("unexpected message: %v", le)
	}
}

func Test_Lexer_Pi(t *testing.T) {
	got := wantTypes(t, `pi`, []TokenType{PI})
	if !strings.HasPrefix(got[0].Lexeme, "3.14159") {
		t.Fatalf("pi lexeme should carry the decimal expansion, got %q", got[0].Lexeme)
	}
}

func Test_Lexer_String_Raw(t *testing.T) {
	got := wantTypes(t, `"hi \n there"`, []TokenType{STRING})
	if got[0].Lexeme != `hi \n there` {
		t.Fatalf("strings must be raw, got %q", got[0].Lexeme)
	}
}

func Test_Lexer_String_Unterminated(t *testing.T) {
	_, err := Tokenize("<test>", `chant "never ends`)
	if err == nil {
		t.Fatalf("expected lexical error")
	}
	le, ok := err.(*LexicalError)
	if !ok {
		t.Fatalf("expected *LexicalError, got %T: %v", err, err)
	}
	if !strings.Contains(le.Msg, "unterminated string") {
		t.Fatalf("unexpected message: %v", le)
	}
}

func Test_Lexer_LineComment(t *testing.T) {
	wantTypes(t, "wield x 1 # the rest is ignored == != {\nchant x",
		[]TokenType{WIELD, IDENT, INT, CHANT, IDENT})
}

func Test_Lexer_BlockComment(t *testing.T) {
	src := `wield x 1 :guard/ anything
	spanning lines "even quotes /guard: chant x`
	wantTypes(t, src, []TokenType{WIELD, IDENT, INT, CHANT, IDENT})
}

func Test_Lexer_BlockComment_Unterminated(t *testing.T) {
	_, err := Tokenize("<test>", `:guard/ never closed`)
	if err == nil {
		t.Fatalf("expected lexical error")
	}
	if !strings.Contains(err.Error(), "unterminated block comment") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// A lone ':' not followed by "guard/" stays a plain colon token.
func Test_Lexer_ColonWithoutGuard(t *testing.T) {
	wantTypes(t, `x : y`, []TokenType{IDENT, COLON, IDENT})
}

func Test_Lexer_Positions(t *testing.T) {
	ts := toks(t, "wield x 1\nchant x")
	chant := ts[3]
	if chant.Type != CHANT {
		t.Fatalf("expected CHANT at index 3, got %v", chant)
	}
	want := Position{Offset: 10, Line: 1, Col: 0}
	if chant.Start != want {
		t.Fatalf("chant start position: want %+v, got %+v", want, chant.Start)
	}
}

func Test_Lexer_IllegalCharacter(t *testing.T) {
	_, err := Tokenize("<test>", `wield x @`)
	if err == nil {
		t.Fatalf("expected lexical error")
	}
	if !strings.Contains(err.Error(), "illegal character") || !strings.Contains(err.Error(), "line 1, column 8") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func Test_Lexer_WarriorNames(t *testing.T) {
	cases := map[TokenType]string{
		PLUS: "commune", MINUS: "banish", MUL: "rally", DIV: "slash",
		POW: "ascend", ASSIGN: "bind", EQ: "evermore", NEQ: "differ",
		LROUND: "gather", RROUND: "disperse", EOF: "end",
	}
	for tt, want := range cases {
		if got := tt.String(); got != want {
			t.Fatalf("token %d: want name %q, got %q", int(tt), want, got)
		}
	}
}

func Test_Lexer_EOFAlwaysLast(t *testing.T) {
	ts := toks(t, ``)
	if len(ts) != 1 || ts[0].Type != EOF {
		t.Fatalf("empty source should yield a single EOF token, got %v", ts)
	}
}
