package compiler

import "fmt"

// CompileError reports a single compile-time diagnostic: a scanner or
// parser failure attributed to a source line and, where available, the
// offending lexeme. Compile writes only the first such diagnostic to its
// output writer and then stops parsing; it reports failure through its
// bool result, not by returning a CompileError.
type CompileError struct {
	Line    int
	Where   string // "end" or the offending lexeme; empty when absent
	Message string
}

func (e CompileError) Error() string {
	if e.Where == "" {
		return fmt.Sprintf("💥 [line %d] Error: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("💥 [line %d] Error at %s: %s", e.Line, e.Where, e.Message)
}

// internalError marks a condition the parse-rule table is supposed to
// make unreachable, such as an infix handler firing for a token type
// whose rule carries no infix slot. Kept distinct from CompileError so
// "the program is invalid" is never confused with "the compiler itself
// is broken".
type internalError struct {
	Message string
}

func (e internalError) Error() string {
	return fmt.Sprintf("🤖 DeveloperError: %s", e.Message)
}
