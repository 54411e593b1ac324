// parser.go — recursive descent parser for Jarlang.
//
// One method per grammar level, low to high precedence:
//
//	statement  → judge | lest | chant | wield/vow/sacred | summon
//	           | IDENT '=' expression | '{' statements '}' | expression
//	comparison → addSub (('=='|'!='|'<'|'>'|'<='|'>=') addSub)*
//	addSub     → mulDiv (('+'|'-') mulDiv)*          left-assoc
//	mulDiv     → power (('*'|'/') power)*            left-assoc
//	power      → unary ('^' power)?                  right-assoc
//	unary      → ('-'|'+'|'!') unary | primary
//	primary    → INT | FLOAT | STRING | pi | IDENT | '(' expression ')'
//
// Each level consumes exactly the tokens its rule describes or fails
// immediately; there is no backtracking and no mid-statement recovery. A
// compilation unit is a sequence of statements with optional ';' separators
// and parses to a single Block root.
package jarlang

import "fmt"

// Parser walks a token slice with a cursor. The slice must end with EOF,
// which Tokenize guarantees.
type Parser struct {
	tokens []Token
	idx    int
}

// NewParser creates a parser over tokens.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token sequence and returns the root Block node.
// Parsing the same token slice twice yields structurally equal trees.
func Parse(tokens []Token) (*Node, error) {
	if len(tokens) == 0 {
		return nil, &SyntaxError{Msg: "no tokens to parse"}
	}
	return NewParser(tokens).Parse()
}

// Parse consumes statements until EOF and returns a Block holding them.
func (p *Parser) Parse() (*Node, error) {
	if len(p.tokens) == 0 {
		return nil, p.errf("no tokens to parse")
	}
	root := &Node{Kind: NodeBlock, Pos: p.cur().Start}
	for {
		for p.cur().Type == SEMI {
			p.advance()
		}
		if p.cur().Type == EOF {
			return root, nil
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		root.Stmts = append(root.Stmts, stmt)
	}
}

func (p *Parser) cur() Token {
	if p.idx < len(p.tokens) {
		return p.tokens[p.idx]
	}
	return p.tokens[len(p.tokens)-1] // EOF sentinel
}

func (p *Parser) peekNext() Token {
	if p.idx+1 < len(p.tokens) {
		return p.tokens[p.idx+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() Token {
	tok := p.cur()
	if p.idx < len(p.tokens) {
		p.idx++
	}
	return tok
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return &SyntaxError{
		Msg:   fmt.Sprintf(format, args...),
		Index: p.idx,
		Pos:   p.cur().Start,
	}
}

// ----- statements -----

func (p *Parser) statement() (*Node, error) {
	switch p.cur().Type {
	case JUDGE:
		return p.ifStatement()
	case LEST:
		return p.whileStatement()
	case CHANT:
		return p.chantStatement()
	case WIELD, VOW, SACRED:
		return p.declaration()
	case SUMMON:
		return p.importStatement()
	case LCURLY:
		return p.blockStatement()
	case FORGE:
		return nil, p.errf("'forge' function definitions are not supported")
	case MEND:
		return nil, p.errf("'mend' outside a 'forge' body is not supported")
	case ENDURE:
		return nil, p.errf("'endure' loops are not supported")
	case IDENT:
		// One token of lookahead separates reassignment from a plain
		// identifier expression.
		if p.peekNext().Type == ASSIGN {
			return p.reassignment()
		}
	}
	return p.expression()
}

// ifStatement parses: judge cond statement [orjudge statement]. The else
// branch is itself a statement, so orjudge chains act as else-if.
func (p *Parser) ifStatement() (*Node, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	node := &Node{Kind: NodeIf, Pos: kw.Start, Cond: cond, Body: body}
	if p.cur().Type == ORJUDGE {
		p.advance()
		node.Else, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return node, nil
}

// whileStatement parses: lest cond statement.
func (p *Parser) whileStatement() (*Node, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeWhile, Pos: kw.Start, Cond: cond, Body: body}, nil
}

// chantStatement parses: chant expression.
func (p *Parser) chantStatement() (*Node, error) {
	kw := p.advance()
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeChant, Pos: kw.Start, Expr: expr}, nil
}

// declaration parses: (wield|vow|sacred) IDENT expression. No '=' between
// name and value.
func (p *Parser) declaration() (*Node, error) {
	kw := p.advance()
	if p.cur().Type != IDENT {
		return nil, p.errf("expected variable name after '%s'", kw.Lexeme)
	}
	name := p.advance()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeAssign, Pos: kw.Start, Op: kw.Type, Text: name.Lexeme, Expr: value}, nil
}

// reassignment parses: IDENT '=' expression. The name must already be bound
// at evaluation time.
func (p *Parser) reassignment() (*Node, error) {
	name := p.advance()
	if p.cur().Type != ASSIGN {
		return nil, p.errf("expected '=' after variable name")
	}
	p.advance()
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Node{Kind: NodeAssign, Pos: name.Start, Op: ASSIGN, Text: name.Lexeme, Expr: value}, nil
}

// importStatement parses: summon STRING.
func (p *Parser) importStatement() (*Node, error) {
	kw := p.advance()
	if p.cur().Type != STRING {
		return nil, p.errf("expected module path string after 'summon'")
	}
	path := p.advance()
	return &Node{Kind: NodeImport, Pos: kw.Start, Text: path.Lexeme}, nil
}

// blockStatement parses: '{' statements '}' with optional ';' separators.
func (p *Parser) blockStatement() (*Node, error) {
	open := p.advance()
	node := &Node{Kind: NodeBlock, Pos: open.Start}
	for {
		for p.cur().Type == SEMI {
			p.advance()
		}
		switch p.cur().Type {
		case RCURLY:
			p.advance()
			return node, nil
		case EOF:
			return nil, p.errf("expected '}'")
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		node.Stmts = append(node.Stmts, stmt)
	}
}

// ----- expressions -----

func (p *Parser) expression() (*Node, error) {
	return p.comparison()
}

func (p *Parser) comparison() (*Node, error) {
	left, err := p.addSub()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case EQ, NEQ, LESS, GREATER, LESSEQ, GREATEREQ:
			op := p.advance()
			right, err := p.addSub()
			if err != nil {
				return nil, err
			}
			left = &Node{Kind: NodeBinary, Pos: left.Pos, Op: op.Type, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *Parser) addSub() (*Node, error) {
	left, err := p.mulDiv()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == PLUS || p.cur().Type == MINUS {
		op := p.advance()
		right, err := p.mulDiv()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Pos: left.Pos, Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) mulDiv() (*Node, error) {
	left, err := p.power()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == MUL || p.cur().Type == DIV {
		op := p.advance()
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: NodeBinary, Pos: left.Pos, Op: op.Type, Left: left, Right: right}
	}
	return left, nil
}

// power is right-associative: 2^3^2 parses as 2^(3^2).
func (p *Parser) power() (*Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == POW {
		op := p.advance()
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeBinary, Pos: left.Pos, Op: op.Type, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) unary() (*Node, error) {
	switch p.cur().Type {
	case MINUS, PLUS, NOT:
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: NodeUnary, Pos: op.Start, Op: op.Type, Expr: operand}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (*Node, error) {
	tok := p.cur()
	switch tok.Type {
	case INT, FLOAT, PI:
		p.advance()
		return &Node{Kind: NodeNumber, Pos: tok.Start, Text: tok.Lexeme}, nil
	case STRING:
		p.advance()
		return &Node{Kind: NodeString, Pos: tok.Start, Text: tok.Lexeme}, nil
	case IDENT:
		p.advance()
		return &Node{Kind: NodeIdent, Pos: tok.Start, Text: tok.Lexeme}, nil
	case LROUND:
		p.advance()
		node, err := p.expression()
		if err != nil {
			return nil, err
		}
		if p.cur().Type != RROUND {
			return nil, p.errf("expected ')'")
		}
		p.advance()
		return node, nil
	case EOF:
		return nil, p.errf("unexpected end of input: expected int, float, string, identifier, or '('")
	default:
		return nil, p.errf("expected int, float, string, identifier, or '(', got '%s'", tok)
	}
}
