// Package lexer implements ember's Scanner: a lazy, one-token-at-a-time
// producer over a borrowed source string (spec §4.1).
package lexer

import (
	"ember/token"
)

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlpha(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b == '_'
}

// Scanner produces tokens lazily from source. It maintains start and
// current cursors into source (start..current is the lexeme under
// construction) and the current line for diagnostics.
type Scanner struct {
	source  string
	start   int
	current int
	line    int
}

// New returns a Scanner positioned at the beginning of source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	b := s.source[s.current]
	s.current++
	return b
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

// match consumes the next character and returns true if it equals
// expected; otherwise it leaves the cursor untouched and returns false.
func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) makeToken(t token.Type) token.Token {
	return token.New(t, s.source[s.start:s.current], s.line)
}

func (s *Scanner) errorToken(message string) token.Token {
	return token.New(token.Error, message, s.line)
}

// skipWhitespace consumes spaces, tabs, carriage returns, newlines,
// line comments ("// ... \n"), and block comments ("/* ... */"). A
// newline increments line. An unterminated block comment is left to
// Next to report once skipWhitespace gives up at end of input.
func (s *Scanner) skipWhitespace() (unterminatedComment bool) {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.isAtEnd() {
					s.advance()
				}
			} else if s.peekNext() == '*' {
				s.advance()
				s.advance()
				closed := false
				for !s.isAtEnd() {
					// The terminator is the two-character sequence
					// "*/", so both characters must match together; a
					// loop that stopped as soon as either one matched
					// on its own would end the comment at a lone '*'
					// (as in "* /") or just before any '/'.
					if s.peek() == '*' && s.peekNext() == '/' {
						s.advance()
						s.advance()
						closed = true
						break
					}
					if s.peek() == '\n' {
						s.line++
					}
					s.advance()
				}
				if !closed {
					return true
				}
			} else {
				return false
			}
		default:
			return false
		}
	}
}

// Next scans and returns the next token, skipping whitespace and
// comments first. At end of input it returns an EOF token forever; a
// lexing failure is returned as a token.Error token whose Lexeme is the
// diagnostic message, letting the compiler's advance() recover by
// continuing to pull tokens (spec §4.3).
func (s *Scanner) Next() token.Token {
	if unterminated := s.skipWhitespace(); unterminated {
		return s.errorToken("Unterminated block comment.")
	}

	s.start = s.current
	if s.isAtEnd() {
		return s.makeToken(token.EOF)
	}

	c := s.advance()

	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.makeToken(token.LeftParen)
	case ')':
		return s.makeToken(token.RightParen)
	case '{':
		return s.makeToken(token.LeftBrace)
	case '}':
		return s.makeToken(token.RightBrace)
	case ',':
		return s.makeToken(token.Comma)
	case '.':
		return s.makeToken(token.Dot)
	case ';':
		return s.makeToken(token.Semicolon)
	case '?':
		return s.makeToken(token.Question)
	case ':':
		return s.makeToken(token.Colon)
	case '!':
		if s.match('=') {
			return s.makeToken(token.BangEqual)
		}
		return s.makeToken(token.Bang)
	case '=':
		if s.match('=') {
			return s.makeToken(token.EqualEqual)
		}
		return s.makeToken(token.Equal)
	case '<':
		if s.match('=') {
			return s.makeToken(token.LessEqual)
		}
		return s.makeToken(token.Less)
	case '>':
		if s.match('=') {
			return s.makeToken(token.GreaterEqual)
		}
		return s.makeToken(token.Greater)
	case '+':
		if s.match('=') {
			return s.makeToken(token.PlusEqual)
		}
		return s.makeToken(token.Plus)
	case '-':
		if s.match('=') {
			return s.makeToken(token.MinusEqual)
		}
		return s.makeToken(token.Minus)
	case '*':
		if s.match('=') {
			return s.makeToken(token.StarEqual)
		}
		return s.makeToken(token.Star)
	case '/':
		if s.match('=') {
			return s.makeToken(token.SlashEqual)
		}
		return s.makeToken(token.Slash)
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	lexeme := s.source[s.start:s.current]
	if t, ok := token.Keywords[lexeme]; ok {
		return s.makeToken(t)
	}
	return s.makeToken(token.Identifier)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.makeToken(token.Number)
}

// string scans from the opening '"' (already consumed) to the matching
// closing '"'. Embedded newlines are allowed and increment line.
func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance() // closing quote
	return s.makeToken(token.String)
}

// Literal returns the token's content with surrounding quotes removed,
// for token.String tokens produced by this scanner.
func Literal(t token.Token) string {
	if len(t.Lexeme) < 2 {
		return ""
	}
	return t.Lexeme[1 : len(t.Lexeme)-1]
}
