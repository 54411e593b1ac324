// lexer.go — Jarlang tokenizer.
package jarlang

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Literals & identifiers
	INT
	FLOAT
	STRING
	IDENT
	PI // the literal "pi", carrying the decimal text of math.Pi

	// Operators
	PLUS      // "+"
	MINUS     // "-"
	MUL       // "*"
	DIV       // "/"
	POW       // "^"
	ASSIGN    // "="
	EQ        // "=="
	NEQ       // "!="
	LESS      // "<"
	LESSEQ    // "<="
	GREATER   // ">"
	GREATEREQ // ">="
	NOT       // "!"

	// Punctuation
	LROUND // "("
	RROUND // ")"
	LCURLY // "{"
	RCURLY // "}"
	COMMA
	COLON
	SEMI

	// Keywords
	WIELD   // declare
	VOW     // declare (immutability intended, not enforced)
	SACRED  // declare (immutability intended, not enforced)
	CHANT   // print
	JUDGE   // if
	ORJUDGE // else / else-if
	LEST    // while
	ENDURE  // for (reserved; no evaluator support)
	FORGE   // function definition (reserved; no evaluator support)
	MEND    // return (reserved; no evaluator support)
	SUMMON  // import
)

// tokenNames carries the warrior-themed display names the language documents
// for its tokens.
var tokenNames = map[TokenType]string{
	EOF:       "end",
	INT:       "int",
	FLOAT:     "float",
	STRING:    "tale",
	IDENT:     "mark",
	PI:        "pi",
	PLUS:      "commune",
	MINUS:     "banish",
	MUL:       "rally",
	DIV:       "slash",
	POW:       "ascend",
	ASSIGN:    "bind",
	EQ:        "evermore",
	NEQ:       "differ",
	LESS:      "lessen",
	LESSEQ:    "atmost",
	GREATER:   "heighten",
	GREATEREQ: "atleast",
	NOT:       "defy",
	LROUND:    "gather",
	RROUND:    "disperse",
	LCURLY:    "enclose",
	RCURLY:    "release",
	COMMA:     "separate",
	COLON:     "declare",
	SEMI:      "conclude",
	WIELD:     "wield",
	VOW:       "vow",
	SACRED:    "sacred",
	CHANT:     "chant",
	JUDGE:     "judge",
	ORJUDGE:   "orjudge",
	LEST:      "lest",
	ENDURE:    "endure",
	FORGE:     "forge",
	MEND:      "mend",
	SUMMON:    "summon",
}

func (tt TokenType) String() string {
	if s, ok := tokenNames[tt]; ok {
		return s
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// keywords map
var keywords = map[string]TokenType{
	"wield":   WIELD,
	"vow":     VOW,
	"sacred":  SACRED,
	"chant":   CHANT,
	"judge":   JUDGE,
	"orjudge": ORJUDGE,
	"lest":    LEST,
	"endure":  ENDURE,
	"forge":   FORGE,
	"mend":    MEND,
	"summon":  SUMMON,
}

// Token is a lexical unit with its source span. The end-of-input marker is an
// EOF token with an empty lexeme; every token stream carries exactly one.
type Token struct {
	Type   TokenType
	Lexeme string
	Start  Position
	End    Position
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%s: '%s'", t.Type, t.Lexeme)
	}
	return t.Type.String()
}

// piText is the lexeme carried by PI tokens.
var piText = strconv.FormatFloat(math.Pi, 'g', -1, 64)

const (
	blockCommentOpen  = ":guard/"
	blockCommentClose = "/guard:"
)

// Lexer scans a Jarlang source string into tokens.
type Lexer struct {
	filename string
	src      string
	pos      Position // pos.Offset doubles as the byte cursor
	tokStart Position
	tokens   []Token
}

// NewLexer creates a lexer for the given source. The filename is only used
// for diagnostics.
func NewLexer(filename, src string) *Lexer {
	return &Lexer{filename: filename, src: src}
}

// Tokenize scans text into a token slice terminated by a single EOF token.
func Tokenize(filename, text string) ([]Token, error) {
	return NewLexer(filename, text).Scan()
}

func (l *Lexer) isAtEnd() bool { return l.pos.Offset >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.pos.Offset], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.pos.Offset]
	l.pos = l.pos.Advance(ch)
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lexeme string) Token {
	tok := Token{Type: tt, Lexeme: lexeme, Start: l.tokStart, End: l.pos}
	l.tokens = append(l.tokens, tok)
	return tok
}

func (l *Lexer) err(msg string) error {
	return &LexicalError{Msg: msg, Pos: l.pos}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_'
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			l.advance()
		default:
			return
		}
	}
}

// skipLineComment eats a '#' comment up to and including the newline.
func (l *Lexer) skipLineComment() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		l.advance()
		if b == '\n' {
			return
		}
	}
}

// skipBlockComment eats a ":guard/ ... /guard:" span. The opening ':' has
// already been consumed; the caller verified "guard/" follows.
func (l *Lexer) skipBlockComment() error {
	for i := 0; i < len(blockCommentOpen)-1; i++ {
		l.advance() // "guard/"
	}
	for !l.isAtEnd() {
		if strings.HasPrefix(l.src[l.pos.Offset:], blockCommentClose) {
			for i := 0; i < len(blockCommentClose); i++ {
				l.advance()
			}
			return nil
		}
		l.advance()
	}
	return l.err("unterminated block comment (missing '/guard:')")
}

// scanNumber collects a digit run with at most one decimal point. A second
// '.' terminates the number rather than erroring; it may start the next token.
func (l *Lexer) scanNumber() Token {
	start := l.tokStart.Offset
	sawDot := false
	for {
		b, ok := l.peek()
		if !ok {
			break
		}
		if b == '.' {
			if sawDot {
				break
			}
			sawDot = true
			l.advance()
			continue
		}
		if !isDigit(b) {
			break
		}
		l.advance()
	}
	lex := l.src[start:l.pos.Offset]
	if sawDot {
		return l.addToken(FLOAT, lex)
	}
	return l.addToken(INT, lex)
}

// scanString collects raw characters between double quotes. There is no
// escape processing; a '\' is an ordinary character.
func (l *Lexer) scanString() (Token, error) {
	var b strings.Builder
	for {
		ch, ok := l.advance()
		if !ok {
			return Token{}, l.err("unterminated string literal: \"" + b.String())
		}
		if ch == '"' {
			return l.addToken(STRING, b.String()), nil
		}
		b.WriteByte(ch)
	}
}

// scanIdentifier collects [A-Za-z][A-Za-z0-9_]* and resolves keywords and the
// numeric constant "pi".
func (l *Lexer) scanIdentifier() Token {
	start := l.tokStart.Offset
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	lex := l.src[start:l.pos.Offset]
	if lex == "pi" {
		return l.addToken(PI, piText)
	}
	if tt, ok := keywords[lex]; ok {
		return l.addToken(tt, lex)
	}
	return l.addToken(IDENT, lex)
}

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.tokStart = l.pos

		if l.isAtEnd() {
			return l.addToken(EOF, ""), nil
		}

		ch, _ := l.advance()

		switch ch {
		case '+':
			return l.addToken(PLUS, "+"), nil
		case '-':
			return l.addToken(MINUS, "-"), nil
		case '*':
			return l.addToken(MUL, "*"), nil
		case '/':
			return l.addToken(DIV, "/"), nil
		case '^':
			return l.addToken(POW, "^"), nil
		case '(':
			return l.addToken(LROUND, "("), nil
		case ')':
			return l.addToken(RROUND, ")"), nil
		case '{':
			return l.addToken(LCURLY, "{"), nil
		case '}':
			return l.addToken(RCURLY, "}"), nil
		case ',':
			return l.addToken(COMMA, ","), nil
		case ';':
			return l.addToken(SEMI, ";"), nil
		}

		// Two-char operators and fallbacks
		switch ch {
		case '=':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(EQ, "=="), nil
			}
			return l.addToken(ASSIGN, "="), nil
		case '!':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(NEQ, "!="), nil
			}
			return l.addToken(NOT, "!"), nil
		case '<':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(LESSEQ, "<="), nil
			}
			return l.addToken(LESS, "<"), nil
		case '>':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(GREATEREQ, ">="), nil
			}
			return l.addToken(GREATER, ">"), nil
		}

		// ':' opens a block comment when "guard/" follows, otherwise it is
		// the plain colon token.
		if ch == ':' {
			if strings.HasPrefix(l.src[l.pos.Offset:], blockCommentOpen[1:]) {
				if err := l.skipBlockComment(); err != nil {
					return Token{}, err
				}
				continue
			}
			return l.addToken(COLON, ":"), nil
		}

		if ch == '#' {
			l.skipLineComment()
			continue
		}

		if ch == '"' {
			return l.scanString()
		}

		if isDigit(ch) {
			return l.scanNumber(), nil
		}

		if isAlpha(ch) {
			return l.scanIdentifier(), nil
		}

		return Token{}, &LexicalError{
			Msg: fmt.Sprintf("illegal character %q", ch),
			Pos: l.tokStart,
		}
	}
}

// Scan tokenizes the entire source and returns tokens (EOF included). The
// sequence is eager and consumed once; the first illegal character or
// unterminated string aborts the whole scan.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}
