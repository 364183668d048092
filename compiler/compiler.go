// Package compiler implements ember's single-pass Pratt compiler: tokens
// are pulled from a Scanner on demand and bytecode is emitted directly
// into a Chunk, with no intermediate AST. Precedence climbing is driven
// by a static table of per-token (prefix, infix, precedence) rules,
// mirroring the non-AST Compiler the teacher kept around before settling
// on an AST-walking design — ember goes the other way and commits to it.
package compiler

import (
	"fmt"
	"io"
	"strconv"

	"ember/chunk"
	"ember/lexer"
	"ember/object"
	"ember/token"
	"ember/value"
)

// Precedence is a totally ordered precedence level; precedence+1 is
// always the next tightest-binding level, which is what lets a binary
// handler demand "my right-hand side binds at least one level tighter
// than me" to get left-associativity for free.
type Precedence byte

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecTernary
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecTerm
	PrecFactor
	PrecUnary
	PrecCall
	PrecPrimary
)

type parseFn func(*Compiler)

// parseRule is the per-token-type triple the Pratt algorithm consults:
// how to parse this token type when it starts an expression (prefix),
// how to parse it when it continues one (infix), and at what precedence
// it binds as an infix operator. A nil handler means the token cannot
// appear in that syntactic position.
type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// rules is the static parse-rule table, keyed by token.Type rather than
// indexed by a flat array: Go has no sparse-array literal as concise as
// a map for an enum with this many unused slots, and every token type
// not present here correctly falls back to the zero parseRule (no
// prefix, no infix, PrecNone), preserving the "every type has a defined
// rule, even an absent one" contract without writing out ~30 blank rows.
// Ternary/Or/And/Call precedence levels exist in the ladder for a
// grammar this compiler does not compile; nothing in the table
// references them yet.
//
// The table is filled in init rather than by a variable initializer
// because the handlers reach back into it through getRule, which Go
// rejects as an initialization cycle.
var rules map[token.Type]parseRule

func init() {
	rules = map[token.Type]parseRule{
		token.LeftParen: {prefix: (*Compiler).grouping},

		token.Minus: {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:  {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash: {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:  {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Bang:  {prefix: (*Compiler).unary},

		token.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},

		token.Number: {prefix: (*Compiler).number},
		token.String: {prefix: (*Compiler).stringLiteral},
		token.True:   {prefix: (*Compiler).literal},
		token.False:  {prefix: (*Compiler).literal},
		token.Nil:    {prefix: (*Compiler).literal},
	}
}

func getRule(t token.Type) parseRule {
	return rules[t]
}

// Compiler holds the parser's cursor over a token stream plus the Chunk
// it emits into. Scanner errors and parse errors both flow through its
// error-reporting state (had_error / panic mode from spec §4.3); a
// Compiler is single-use, scoped to one call to Compile.
type Compiler struct {
	scanner *lexer.Scanner
	heap    *object.Heap
	out     io.Writer

	chunk *chunk.Chunk

	previous token.Token
	current  token.Token

	hadError  bool
	panicMode bool
}

// Compile compiles source into a Chunk. It always returns a chunk (even
// a partially emitted one after an error) and a bool reporting whether
// compilation succeeded; the caller must not run the chunk when the
// bool is false.
func Compile(source string, heap *object.Heap, out io.Writer) (*chunk.Chunk, bool) {
	c := &Compiler{
		scanner: lexer.New(source),
		heap:    heap,
		out:     out,
		chunk:   chunk.New(),
	}

	c.advance()
	c.protect(func() {
		c.expression()
		c.consume(token.EOF, "Expected end of expression.")
	})
	c.emitReturn()

	return c.chunk, !c.hadError
}

// protect runs fn, recovering the panic fail raises so that a parse
// error unwinds straight out of the (possibly deeply recursive)
// expression tree instead of every parse function threading an error
// return back up by hand. The diagnostic itself is already printed by
// the time fail panics; protect only stops the unwind.
func (c *Compiler) protect(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseAbort); !ok {
				panic(r)
			}
		}
	}()
	fn()
}

// parseAbort is the panic payload fail raises. It carries nothing; the
// diagnostic was already written to c.out and recorded in c.hadError
// before the panic.
type parseAbort struct{}

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt algorithm at the heart of the compiler:
// run the prefix handler for the token that starts the expression, then
// keep folding in infix operators as long as the next token binds at
// least as tightly as precedence.
func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == nil {
		c.fail(c.previous, "Expected expression.")
	}
	prefix(c)

	for precedence <= getRule(c.current.Type).precedence {
		c.advance()
		infix := getRule(c.previous.Type).infix
		if infix == nil {
			c.internal("infix handler missing for token with assigned precedence")
		}
		infix(c)
	}
}

func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RightParen, "Expected ')' after expression.")
}

func (c *Compiler) unary() {
	opType := c.previous.Type
	line := c.previous.Line

	c.parsePrecedence(PrecUnary)

	switch opType {
	case token.Minus:
		c.emitOpAt(chunk.OpNegate, line)
	case token.Bang:
		c.emitOpAt(chunk.OpNot, line)
	}
}

func (c *Compiler) binary() {
	opType := c.previous.Type
	line := c.previous.Line
	rule := getRule(opType)

	// Left-associative: the right operand must bind strictly tighter
	// than this operator, so a run of same-precedence operators folds
	// left (a op b op c compiles as (a op b) op c).
	c.parsePrecedence(rule.precedence + 1)

	switch opType {
	case token.Plus:
		c.emitOpAt(chunk.OpAdd, line)
	case token.Minus:
		c.emitOpAt(chunk.OpSubtract, line)
	case token.Star:
		c.emitOpAt(chunk.OpMultiply, line)
	case token.Slash:
		c.emitOpAt(chunk.OpDivide, line)
	case token.EqualEqual:
		c.emitOpAt(chunk.OpEqual, line)
	case token.BangEqual:
		c.emitOpAt(chunk.OpNotEqual, line)
	case token.Greater:
		c.emitOpAt(chunk.OpGreater, line)
	case token.GreaterEqual:
		c.emitOpAt(chunk.OpGreaterEqual, line)
	case token.Less:
		c.emitOpAt(chunk.OpLess, line)
	case token.LessEqual:
		c.emitOpAt(chunk.OpLessEqual, line)
	default:
		c.internal(fmt.Sprintf("binary handler invoked for non-operator token %s", opType))
	}
}

func (c *Compiler) number() {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.internal(fmt.Sprintf("scanner produced unparseable number literal %q", c.previous.Lexeme))
	}
	c.emitConstant(value.Number(n))
}

func (c *Compiler) stringLiteral() {
	s := lexer.Literal(c.previous)
	obj := c.heap.AllocateString(s)
	c.emitConstant(value.Obj(obj))
}

func (c *Compiler) literal() {
	switch c.previous.Type {
	case token.True:
		c.emitOp(chunk.OpTrue)
	case token.False:
		c.emitOp(chunk.OpFalse)
	case token.Nil:
		c.emitOp(chunk.OpNil)
	default:
		c.internal(fmt.Sprintf("literal handler invoked for non-literal token %s", c.previous.Type))
	}
}

// advance pulls the next non-error token into current, shifting the old
// current into previous first. Scanner failures surface as token.Error
// tokens rather than Go errors (spec §4.3): advance reports them at
// their own position and keeps pulling, so a caller never sees an error
// token in current.
func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.Next()
		if c.current.Type != token.Error {
			break
		}
		c.report(c.current, c.current.Lexeme)
	}
}

// consume advances past current if it has the expected type, otherwise
// aborts the compile with message attributed to current.
func (c *Compiler) consume(t token.Type, message string) {
	if c.current.Type == t {
		c.advance()
		return
	}
	c.fail(c.current, message)
}

func (c *Compiler) emitConstant(v value.Value) {
	if err := c.chunk.AddConstant(v, c.previous.Line); err != nil {
		c.fail(c.previous, err.Error())
	}
}

func (c *Compiler) emitOp(op chunk.OpCode) {
	c.chunk.WriteOp(op, c.previous.Line)
}

func (c *Compiler) emitOpAt(op chunk.OpCode, line int) {
	c.chunk.WriteOp(op, line)
}

func (c *Compiler) emitReturn() {
	c.chunk.WriteOp(chunk.OpReturn, c.previous.Line)
}

// report records a diagnostic without aborting the compile: used for
// scanner errors, which advance recovers from by continuing to pull
// tokens, and internally by fail before it panics.
func (c *Compiler) report(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	var where string
	switch tok.Type {
	case token.EOF:
		where = "end"
	case token.Error:
		// No "at" clause: the scanner already folded the diagnostic
		// into the token's lexeme, so printing it again as a location
		// would just repeat the message.
	default:
		where = fmt.Sprintf("'%s'", tok.Lexeme)
	}

	err := CompileError{Line: tok.Line, Where: where, Message: message}
	fmt.Fprintln(c.out, err.Error())
}

// fail reports the diagnostic, then unwinds the current parse via
// panic/recover (caught by protect). There are no synchronization
// points in this expression-only grammar, so a parse error that would
// otherwise need panic-mode bookkeeping at every call site instead
// aborts outright; the observable result (first diagnostic printed,
// compile fails) is identical either way.
func (c *Compiler) fail(tok token.Token, message string) {
	c.report(tok, message)
	panic(parseAbort{})
}

// internal raises a DeveloperError-style panic for states the parse
// table is supposed to make unreachable. It is not recovered by
// protect, so it propagates as a genuine panic rather than a compile
// failure — such a state means the compiler has a bug, not the program.
func (c *Compiler) internal(message string) {
	panic(internalError{Message: message})
}
