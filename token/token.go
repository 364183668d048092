// Package token defines the lexical categories ember's scanner produces
// and the Token value that carries one of them through the compiler.
package token

import "fmt"

// Type identifies the lexical category of a Token. The compiler keys
// its parse-rule table by Type (see compiler.rules); a Type with no row
// in that table gets the zero rule (no prefix, no infix, PrecNone).
type Type int

const (
	// Punctuation.
	LeftParen Type = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Semicolon
	Question
	Colon

	// One and two character operators.
	Minus
	Plus
	Slash
	Star
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords. Only True, False, and Nil have a prefix rule today;
	// the rest are reserved so the scanner and the Type space already
	// match the statement-level grammar this compiler does not compile.
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	EOF

	// Error is not a lexical category in spec's sense; it is how the
	// scanner hands a lexing failure (unterminated string, unexpected
	// character, ...) back to the compiler as a token instead of a Go
	// error value, so advance() can recover from it the same way it
	// recovers from any other token (spec §4.3 "on scanner error,
	// report it at the current position and continue pulling").
	Error

	numTypes
)

var names = [numTypes]string{
	LeftParen: "(", RightParen: ")", LeftBrace: "{", RightBrace: "}",
	Comma: ",", Dot: ".", Semicolon: ";", Question: "?", Colon: ":",
	Minus: "-", Plus: "+", Slash: "/", Star: "*",
	Bang: "!", BangEqual: "!=", Equal: "=", EqualEqual: "==",
	Greater: ">", GreaterEqual: ">=", Less: "<", LessEqual: "<=",
	PlusEqual: "+=", MinusEqual: "-=", StarEqual: "*=", SlashEqual: "/=",
	Identifier: "IDENTIFIER", String: "STRING", Number: "NUMBER",
	And: "and", Class: "class", Else: "else", False: "false", For: "for",
	Fun: "fun", If: "if", Nil: "nil", Or: "or", Print: "print",
	Return: "return", Super: "super", This: "this", True: "true",
	Var: "var", While: "while",
	EOF:   "EOF",
	Error: "ERROR",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return names[t]
}

// Keywords maps a scanned identifier's lexeme to a keyword Type. An
// identifier lexeme absent from this map is a plain Identifier token.
var Keywords = map[string]Type{
	"and": And, "class": Class, "else": Else, "false": False, "for": For,
	"fun": Fun, "if": If, "nil": Nil, "or": Or, "print": Print,
	"return": Return, "super": Super, "this": This, "true": True,
	"var": Var, "while": While,
}

// Token is a single lexical unit: its category, the exact source text
// that produced it, and the source line it began on. Lexeme borrows a
// slice of the scanner's source string and is only valid for as long as
// that source outlives it. An Error token is the exception: its Lexeme
// is the scanner's diagnostic message, not source text.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
}

// New constructs a Token.
func New(t Type, lexeme string, line int) Token {
	return Token{Type: t, Lexeme: lexeme, Line: line}
}

// String renders a Token for diagnostics and test failure messages.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q line %d}", t.Type, t.Lexeme, t.Line)
}
