package token

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		text string
		line int
		want Token
	}{
		{"equal", Equal, "=", 1, Token{Type: Equal, Lexeme: "=", Line: 1}},
		{"identifier", Identifier, "myVar", 3, Token{Type: Identifier, Lexeme: "myVar", Line: 3}},
		{"number", Number, "42", 7, Token{Type: Number, Lexeme: "42", Line: 7}},
		{"star", Star, "*", 1, Token{Type: Star, Lexeme: "*", Line: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.typ, tt.text, tt.line)
			if got != tt.want {
				t.Errorf("New() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeywordsCoverReservedWords(t *testing.T) {
	want := []string{"and", "class", "else", "false", "for", "fun", "if",
		"nil", "or", "print", "return", "super", "this", "true", "var", "while"}

	for _, lexeme := range want {
		if _, ok := Keywords[lexeme]; !ok {
			t.Errorf("Keywords missing entry for %q", lexeme)
		}
	}
}

func TestTypeStringOutOfRange(t *testing.T) {
	if got := Type(-1).String(); got == "" {
		t.Errorf("Type(-1).String() returned empty string")
	}
}
