// interpreter.go — runtime values, the scope chain, and the tree-walking
// evaluator.
//
// OVERVIEW
// --------
// Jarlang evaluates by direct recursive descent over the AST; there is no
// intermediate representation. Values are a two-case tagged union (number or
// string). Scopes form a parent-linked chain of Contexts: declarations bind
// in the local frame (shadowing any outer binding), reads walk parent-ward,
// and reassignment writes to the frame that owns the existing binding.
//
// The public entry points consumed by the CLI/REPL and by embedders are:
//
//	Tokenize(filename, text)            — lexer.go
//	Parse(tokens)                       — parser.go
//	(*Interpreter).Evaluate(node, ctx)  — this file
//	(*Interpreter).ImportInto(path, ctx)— modules.go
//
// Everything the surrounding tooling does (prompting, history, token dumps,
// colored output) is layered on these four calls and never affects core
// semantics.
//
// ERRORS
// ------
// Evaluate returns (Value, error); on failure the error is a *RuntimeError
// carrying the failing node's position. The first runtime error anywhere in
// a subtree aborts the enclosing statement — there is no partial result.
//
// CONCURRENCY
// -----------
// An Interpreter is single-threaded: one evaluation runs at a time, and
// nested imports reuse the same call stack. The module cache belongs to the
// Interpreter instance, so independent interpreters never share state.
package jarlang

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// Version of the Jarlang runtime.
const Version = "0.3.0"

////////////////////////////////////////////////////////////////////////////////
//                                   VALUES
////////////////////////////////////////////////////////////////////////////////

// ValueTag discriminates the two runtime kinds.
type ValueTag int

const (
	VTNumber ValueTag = iota // float64 payload
	VTString                 // string payload
)

// Value is the runtime result of evaluating an expression. Vowed records the
// immutability intent of vow/sacred declarations; it is carried on the
// binding but not enforced.
type Value struct {
	Tag   ValueTag
	Num   float64
	Text  string
	Vowed bool
}

// NumberOf wraps a float64 as a number value.
func NumberOf(f float64) Value { return Value{Tag: VTNumber, Num: f} }

// StringOf wraps text as a string value.
func StringOf(s string) Value { return Value{Tag: VTString, Text: s} }

// String renders the value's canonical text form: strings verbatim, numbers
// in their shortest round-trip decimal form (whole numbers print without a
// trailing ".0").
func (v Value) String() string {
	if v.Tag == VTString {
		return v.Text
	}
	return strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// Truthy reports whether a number value is non-zero. Conditions are numeric;
// the evaluator rejects string conditions before asking.
func (v Value) Truthy() bool { return v.Num != 0 }

////////////////////////////////////////////////////////////////////////////////
//                                SCOPE CHAIN
////////////////////////////////////////////////////////////////////////////////

// Context is a name→value binding frame with an optional parent for lexical
// lookup. Name is a diagnostic label; contexts created from files are
// labeled "file:<abs-path>" so the module loader can anchor relative
// imports.
type Context struct {
	Name   string
	table  map[string]Value
	parent *Context
}

// NewContext creates a frame with the given label and parent (nil for the
// root).
func NewContext(name string, parent *Context) *Context {
	return &Context{Name: name, table: make(map[string]Value), parent: parent}
}

// Define binds name in the current frame, shadowing any outer binding.
func (c *Context) Define(name string, v Value) {
	c.table[name] = v
}

// Assign updates the existing binding of name in the frame that owns it,
// walking the parent chain. It reports false when the name is unbound
// everywhere; it never implicitly defines.
func (c *Context) Assign(name string, v Value) bool {
	if _, ok := c.table[name]; ok {
		c.table[name] = v
		return true
	}
	if c.parent != nil {
		return c.parent.Assign(name, v)
	}
	return false
}

// Get retrieves the nearest visible binding for name.
func (c *Context) Get(name string) (Value, bool) {
	if v, ok := c.table[name]; ok {
		return v, true
	}
	if c.parent != nil {
		return c.parent.Get(name)
	}
	return Value{}, false
}

// Has reports whether name is visible from this frame.
func (c *Context) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Depth is the number of parent hops to the root context.
func (c *Context) Depth() int {
	if c.parent == nil {
		return 0
	}
	return c.parent.Depth() + 1
}

// Snapshot flattens the visible bindings into one map, local frames
// shadowing ancestors. Used by the REPL's variable dump.
func (c *Context) Snapshot() map[string]Value {
	var out map[string]Value
	if c.parent != nil {
		out = c.parent.Snapshot()
	} else {
		out = make(map[string]Value)
	}
	for k, v := range c.table {
		out[k] = v
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
//                                INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// Interpreter owns the global scope, the chant output sink, and the module
// cache. Zero-value fields are filled by NewInterpreter.
type Interpreter struct {
	Globals *Context
	Out     io.Writer // chant destination; defaults to os.Stdout

	modules   map[string]*moduleRec // module cache keyed by canonical path
	loadStack []string              // import cycle guard
}

// NewInterpreter constructs a ready-to-use engine with an empty global
// context and stdout as the chant sink.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Globals: NewContext("<global>", nil),
		Out:     os.Stdout,
		modules: map[string]*moduleRec{},
	}
}

// EvalSource tokenizes, parses, and evaluates src against ctx. The name
// labels diagnostics ("<repl>", "file:/path", ...). Errors keep their
// original kind: lexical, syntax, or runtime.
func (ip *Interpreter) EvalSource(name, src string, ctx *Context) (Value, error) {
	tokens, err := Tokenize(name, src)
	if err != nil {
		return Value{}, err
	}
	ast, err := Parse(tokens)
	if err != nil {
		return Value{}, err
	}
	return ip.Evaluate(ast, ctx)
}

// RunFile reads and executes a script file in a fresh file-labeled child of
// Globals, so relative summon paths resolve against the file's directory.
func (ip *Interpreter) RunFile(path string) (Value, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Value{}, &RuntimeError{Msg: fmt.Sprintf("cannot read %s: %v", path, err)}
	}
	abs := path
	if a, aerr := filepath.Abs(path); aerr == nil {
		abs = a
	}
	ctx := NewContext(fileLabel(abs), ip.Globals)
	return ip.EvalSource(abs, string(src), ctx)
}

func (ip *Interpreter) rtErr(pos Position, format string, args ...interface{}) error {
	return &RuntimeError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// Evaluate walks the tree rooted at n against ctx and returns its value.
// Operand side effects run strictly left to right; the first error aborts
// the whole walk.
func (ip *Interpreter) Evaluate(n *Node, ctx *Context) (Value, error) {
	if n == nil {
		return Value{}, &RuntimeError{Msg: "nothing to evaluate"}
	}
	switch n.Kind {
	case NodeNumber:
		f, err := strconv.ParseFloat(n.Text, 64)
		if err != nil {
			return Value{}, ip.rtErr(n.Pos, "invalid number literal: %q", n.Text)
		}
		return NumberOf(f), nil

	case NodeString:
		return StringOf(n.Text), nil

	case NodeBoolean:
		if n.BoolVal {
			return NumberOf(1), nil
		}
		return NumberOf(0), nil

	case NodeIdent:
		v, ok := ctx.Get(n.Text)
		if !ok {
			return Value{}, ip.rtErr(n.Pos, "undefined variable: %s", n.Text)
		}
		return v, nil

	case NodeUnary:
		return ip.evalUnary(n, ctx)

	case NodeBinary:
		return ip.evalBinary(n, ctx)

	case NodeAssign:
		return ip.evalAssign(n, ctx)

	case NodeChant:
		v, err := ip.Evaluate(n.Expr, ctx)
		if err != nil {
			return Value{}, err
		}
		fmt.Fprintln(ip.Out, v.String())
		return NumberOf(0), nil

	case NodeIf:
		cond, err := ip.evalCondition(n.Cond, ctx)
		if err != nil {
			return Value{}, err
		}
		if cond {
			return ip.Evaluate(n.Body, ctx)
		}
		if n.Else != nil {
			return ip.Evaluate(n.Else, ctx)
		}
		return NumberOf(0), nil

	case NodeWhile:
		last := NumberOf(0)
		for {
			cond, err := ip.evalCondition(n.Cond, ctx)
			if err != nil {
				return Value{}, err
			}
			if !cond {
				return last, nil
			}
			last, err = ip.Evaluate(n.Body, ctx)
			if err != nil {
				return Value{}, err
			}
		}

	case NodeBlock:
		last := NumberOf(0)
		for _, stmt := range n.Stmts {
			v, err := ip.Evaluate(stmt, ctx)
			if err != nil {
				return Value{}, err
			}
			last = v
		}
		return last, nil

	case NodeImport:
		if err := ip.ImportInto(n.Text, ctx); err != nil {
			// Loader errors without a location inherit the summon site;
			// errors from inside the module keep their own positions.
			if re, ok := err.(*RuntimeError); ok && re.Pos == (Position{}) {
				re.Pos = n.Pos
			}
			return Value{}, err
		}
		return NumberOf(0), nil

	default:
		return Value{}, ip.rtErr(n.Pos, "unknown node kind: %d", int(n.Kind))
	}
}

// evalCondition evaluates a judge/lest condition and applies the truthiness
// rule (any number != 0.0). String conditions are a type mismatch.
func (ip *Interpreter) evalCondition(n *Node, ctx *Context) (bool, error) {
	v, err := ip.Evaluate(n, ctx)
	if err != nil {
		return false, err
	}
	if v.Tag != VTNumber {
		return false, ip.rtErr(n.Pos, "condition must be a number, not a string")
	}
	return v.Truthy(), nil
}

func (ip *Interpreter) evalUnary(n *Node, ctx *Context) (Value, error) {
	v, err := ip.Evaluate(n.Expr, ctx)
	if err != nil {
		return Value{}, err
	}
	if v.Tag != VTNumber {
		return Value{}, ip.rtErr(n.Pos, "cannot apply unary '%s' to a string", opSymbol(n.Op))
	}
	switch n.Op {
	case MINUS:
		return NumberOf(-v.Num), nil
	case PLUS:
		return v, nil
	case NOT:
		if v.Num == 0 {
			return NumberOf(1), nil
		}
		return NumberOf(0), nil
	default:
		return Value{}, ip.rtErr(n.Pos, "unknown unary operator: %s", n.Op)
	}
}

func (ip *Interpreter) evalBinary(n *Node, ctx *Context) (Value, error) {
	left, err := ip.Evaluate(n.Left, ctx)
	if err != nil {
		return Value{}, err
	}
	right, err := ip.Evaluate(n.Right, ctx)
	if err != nil {
		return Value{}, err
	}

	bothNumbers := left.Tag == VTNumber && right.Tag == VTNumber
	bothStrings := left.Tag == VTString && right.Tag == VTString

	switch n.Op {
	case PLUS:
		if bothNumbers {
			return NumberOf(left.Num + right.Num), nil
		}
		// A string operand turns '+' into concatenation; a number operand
		// is rendered in its canonical text form.
		return StringOf(left.String() + right.String()), nil

	case MINUS, MUL, DIV, POW:
		if !bothNumbers {
			return Value{}, ip.rtErr(n.Pos, "cannot apply '%s' to a string", opSymbol(n.Op))
		}
		switch n.Op {
		case MINUS:
			return NumberOf(left.Num - right.Num), nil
		case MUL:
			return NumberOf(left.Num * right.Num), nil
		case DIV:
			if right.Num == 0 {
				return Value{}, ip.rtErr(n.Pos, "division by zero")
			}
			return NumberOf(left.Num / right.Num), nil
		default: // POW
			return NumberOf(math.Pow(left.Num, right.Num)), nil
		}

	case EQ, NEQ:
		if !bothNumbers && !bothStrings {
			return Value{}, ip.rtErr(n.Pos, "cannot compare a number with a string")
		}
		eq := left.Num == right.Num
		if bothStrings {
			eq = left.Text == right.Text
		}
		if n.Op == NEQ {
			eq = !eq
		}
		return boolNum(eq), nil

	case LESS, GREATER, LESSEQ, GREATEREQ:
		if !bothNumbers && !bothStrings {
			return Value{}, ip.rtErr(n.Pos, "cannot compare a number with a string")
		}
		var lt, eq bool
		if bothStrings {
			lt, eq = left.Text < right.Text, left.Text == right.Text
		} else {
			lt, eq = left.Num < right.Num, left.Num == right.Num
		}
		switch n.Op {
		case LESS:
			return boolNum(lt), nil
		case GREATER:
			return boolNum(!lt && !eq), nil
		case LESSEQ:
			return boolNum(lt || eq), nil
		default: // GREATEREQ
			return boolNum(!lt), nil
		}

	default:
		return Value{}, ip.rtErr(n.Pos, "unknown operator: %s", n.Op)
	}
}

func (ip *Interpreter) evalAssign(n *Node, ctx *Context) (Value, error) {
	v, err := ip.Evaluate(n.Expr, ctx)
	if err != nil {
		return Value{}, err
	}
	v.Vowed = n.IsVowed()
	if n.IsDecl() {
		ctx.Define(n.Text, v)
		return v, nil
	}
	// Reassignment requires an existing binding and writes to the frame
	// that owns it.
	if !ctx.Assign(n.Text, v) {
		return Value{}, ip.rtErr(n.Pos, "undefined variable: %s", n.Text)
	}
	return v, nil
}

func boolNum(b bool) Value {
	if b {
		return NumberOf(1)
	}
	return NumberOf(0)
}

// opSymbol maps an operator token type back to its source spelling for error
// messages.
func opSymbol(tt TokenType) string {
	switch tt {
	case PLUS:
		return "+"
	case MINUS:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	case POW:
		return "^"
	case EQ:
		return "=="
	case NEQ:
		return "!="
	case LESS:
		return "<"
	case GREATER:
		return ">"
	case LESSEQ:
		return "<="
	case GREATEREQ:
		return ">="
	case NOT:
		return "!"
	default:
		return tt.String()
	}
}
