package compiler

import (
	"bytes"
	"strings"
	"testing"

	"ember/chunk"
	"ember/object"
)

func compileOK(t *testing.T, source string) *chunk.Chunk {
	t.Helper()
	var diagnostics bytes.Buffer
	c, ok := Compile(source, object.NewHeap(), &diagnostics)
	if !ok {
		t.Fatalf("Compile(%q) failed: %s", source, diagnostics.String())
	}
	return c
}

func assertCode(t *testing.T, got *chunk.Chunk, want []byte) {
	t.Helper()
	if len(got.Code) != len(want) {
		t.Fatalf("Code = %v, want %v", got.Code, want)
	}
	for i := range want {
		if got.Code[i] != want[i] {
			t.Errorf("Code[%d] = %d, want %d (full: %v, want %v)", i, got.Code[i], want[i], got.Code, want)
		}
	}
}

func TestNumberLiteralEmitsConstant(t *testing.T) {
	c := compileOK(t, "5")
	assertCode(t, c, []byte{byte(chunk.OpConstant), 0, byte(chunk.OpReturn)})
	if c.Constants[0].AsNumber() != 5 {
		t.Errorf("Constants[0] = %v, want 5", c.Constants[0])
	}
}

func TestPrecedenceMultiplicationBindsTighterThanAddition(t *testing.T) {
	c := compileOK(t, "1 + 2 * 3")
	assertCode(t, c, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpConstant), 2,
		byte(chunk.OpMultiply),
		byte(chunk.OpAdd),
		byte(chunk.OpReturn),
	})
}

func TestGroupingOverridesPrecedence(t *testing.T) {
	c := compileOK(t, "(1 + 2) * 3")
	assertCode(t, c, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpAdd),
		byte(chunk.OpConstant), 2,
		byte(chunk.OpMultiply),
		byte(chunk.OpReturn),
	})
}

func TestSamePrecedenceIsLeftAssociative(t *testing.T) {
	c := compileOK(t, "1 - 2 - 3")
	assertCode(t, c, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpConstant), 1,
		byte(chunk.OpSubtract),
		byte(chunk.OpConstant), 2,
		byte(chunk.OpSubtract),
		byte(chunk.OpReturn),
	})
}

func TestUnaryNegateAndNot(t *testing.T) {
	c := compileOK(t, "!-5")
	assertCode(t, c, []byte{
		byte(chunk.OpConstant), 0,
		byte(chunk.OpNegate),
		byte(chunk.OpNot),
		byte(chunk.OpReturn),
	})
}

func TestLiteralsEmitDedicatedOpcodes(t *testing.T) {
	tests := []struct {
		source string
		op     chunk.OpCode
	}{
		{"true", chunk.OpTrue},
		{"false", chunk.OpFalse},
		{"nil", chunk.OpNil},
	}
	for _, tt := range tests {
		c := compileOK(t, tt.source)
		assertCode(t, c, []byte{byte(tt.op), byte(chunk.OpReturn)})
	}
}

func TestComparisonAndEqualityOperators(t *testing.T) {
	tests := []struct {
		source string
		op     chunk.OpCode
	}{
		{"1 == 2", chunk.OpEqual},
		{"1 != 2", chunk.OpNotEqual},
		{"1 > 2", chunk.OpGreater},
		{"1 >= 2", chunk.OpGreaterEqual},
		{"1 < 2", chunk.OpLess},
		{"1 <= 2", chunk.OpLessEqual},
	}
	for _, tt := range tests {
		c := compileOK(t, tt.source)
		assertCode(t, c, []byte{
			byte(chunk.OpConstant), 0,
			byte(chunk.OpConstant), 1,
			byte(tt.op),
			byte(chunk.OpReturn),
		})
	}
}

func TestStringLiteralAllocatesOnHeap(t *testing.T) {
	var diagnostics bytes.Buffer
	heap := object.NewHeap()
	c, ok := Compile(`"hello"`, heap, &diagnostics)
	if !ok {
		t.Fatalf("Compile failed: %s", diagnostics.String())
	}
	if heap.Len() != 1 {
		t.Fatalf("heap.Len() = %d, want 1", heap.Len())
	}
	obj, ok := c.Constants[0].AsObject().(*object.StringObject)
	if !ok {
		t.Fatalf("constant is not a *object.StringObject")
	}
	if obj.Go() != "hello" {
		t.Errorf("string content = %q, want %q", obj.Go(), "hello")
	}
}

func TestExpectedExpressionError(t *testing.T) {
	var diagnostics bytes.Buffer
	_, ok := Compile("* 5", object.NewHeap(), &diagnostics)
	if ok {
		t.Fatal("Compile should have failed")
	}
	if !strings.Contains(diagnostics.String(), "Expected expression.") {
		t.Errorf("diagnostics = %q, want mention of 'Expected expression.'", diagnostics.String())
	}
}

func TestMissingClosingParenError(t *testing.T) {
	var diagnostics bytes.Buffer
	_, ok := Compile("(1 + 2", object.NewHeap(), &diagnostics)
	if ok {
		t.Fatal("Compile should have failed")
	}
	if !strings.Contains(diagnostics.String(), "Expected ')'") {
		t.Errorf("diagnostics = %q, want mention of missing ')'", diagnostics.String())
	}
}

func TestOnlyFirstErrorIsReported(t *testing.T) {
	var diagnostics bytes.Buffer
	_, ok := Compile("* + 5", object.NewHeap(), &diagnostics)
	if ok {
		t.Fatal("Compile should have failed")
	}
	if n := strings.Count(diagnostics.String(), "[line"); n != 1 {
		t.Errorf("diagnostics contained %d reported lines, want exactly 1: %q", n, diagnostics.String())
	}
}

func TestTooManyConstantsIsACompileError(t *testing.T) {
	var source strings.Builder
	for i := 0; i < 300; i++ {
		if i > 0 {
			source.WriteString(" + ")
		}
		source.WriteString("1")
	}
	var diagnostics bytes.Buffer
	_, ok := Compile(source.String(), object.NewHeap(), &diagnostics)
	if ok {
		t.Fatal("Compile should have failed past 255 constants")
	}
	if !strings.Contains(diagnostics.String(), "Can not have more than 255 constants.") {
		t.Errorf("diagnostics = %q", diagnostics.String())
	}
}

func TestUnexpectedCharacterIsAScanErrorNotAPanic(t *testing.T) {
	var diagnostics bytes.Buffer
	_, ok := Compile("1 + @", object.NewHeap(), &diagnostics)
	if ok {
		t.Fatal("Compile should have failed")
	}
	if !strings.Contains(diagnostics.String(), "Unexpected character.") {
		t.Errorf("diagnostics = %q", diagnostics.String())
	}
}
