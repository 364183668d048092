// Package chunk implements the compiled-unit format the compiler
// writes into and the VM reads from: a flat instruction stream, a
// byte-indexed constant pool, and a run-length-encoded line table
// (spec §4.2).
package chunk

import (
	"fmt"
	"strings"

	"ember/value"
)

// OpCode is a single-byte instruction tag.
type OpCode byte

const (
	OpReturn OpCode = iota
	OpConstant
	OpNil
	OpTrue
	OpFalse
	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
	OpNegate
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot

	numOpCodes
)

// definition describes how many operand bytes follow an opcode and
// what to call it in disassembly. Every opcode in spec's set is a
// single byte except Constant, which carries one operand byte
// (spec §3: "All are single-byte except Constant which carries one
// operand byte").
type definition struct {
	name          string
	operandWidths []int
}

var definitions = [numOpCodes]definition{
	OpReturn:       {"OP_RETURN", nil},
	OpConstant:     {"OP_CONSTANT", []int{1}},
	OpNil:          {"OP_NIL", nil},
	OpTrue:         {"OP_TRUE", nil},
	OpFalse:        {"OP_FALSE", nil},
	OpEqual:        {"OP_EQUAL", nil},
	OpNotEqual:     {"OP_NOT_EQUAL", nil},
	OpGreater:      {"OP_GREATER", nil},
	OpGreaterEqual: {"OP_GREATER_EQUAL", nil},
	OpLess:         {"OP_LESS", nil},
	OpLessEqual:    {"OP_LESS_EQUAL", nil},
	OpNegate:       {"OP_NEGATE", nil},
	OpAdd:          {"OP_ADD", nil},
	OpSubtract:     {"OP_SUBTRACT", nil},
	OpMultiply:     {"OP_MULTIPLY", nil},
	OpDivide:       {"OP_DIVIDE", nil},
	OpNot:          {"OP_NOT", nil},
}

// Get returns the definition for op, or an error if op is not a known
// opcode. Unlike the teacher's map-keyed lookup, this indexes a flat
// array, since OpCode is always in [0, numOpCodes) for any chunk the
// compiler emits; a value outside that range means corrupt bytecode.
func Get(op OpCode) (definition, error) {
	if op >= numOpCodes {
		return definition{}, fmt.Errorf("chunk: opcode %d undefined", op)
	}
	return definitions[op], nil
}

// lineRun is one entry of the line table: line holds for the next
// count consecutive code offsets.
type lineRun struct {
	line  int
	count int
}

// Chunk is an append-only bytecode builder and, once compiled, the
// read-only unit the VM executes (spec §4.2, §5 "Shared resources").
type Chunk struct {
	Code      []byte
	Constants []value.Value
	lines     []lineRun
}

// New returns an empty Chunk.
func New() *Chunk {
	return &Chunk{}
}

// Write appends a single raw byte to the instruction stream and
// records its source line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.recordLine(line)
}

// WriteOp appends an opcode with no operand.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

// recordLine implements spec's line-table invariant: extend the run in
// progress if it's the same line, otherwise start a new run. The sum of
// every run's count always equals len(Code) by construction.
func (c *Chunk) recordLine(line int) {
	if n := len(c.lines); n > 0 && c.lines[n-1].line == line {
		c.lines[n-1].count++
		return
	}
	c.lines = append(c.lines, lineRun{line: line, count: 1})
}

// GetLine returns the source line attributed to code offset. It walks
// the run-length table accumulating counts until the run covering
// offset is found — O(len(lines)), which spec accepts since this path
// is only exercised by diagnostics and disassembly, never the VM's hot
// loop.
func (c *Chunk) GetLine(offset int) int {
	cursor := 0
	for _, run := range c.lines {
		cursor += run.count
		if offset < cursor {
			return run.line
		}
	}
	if len(c.lines) == 0 {
		return 0
	}
	return c.lines[len(c.lines)-1].line
}

// AddConstant appends v to the constant pool and emits an OP_CONSTANT
// instruction referencing its index. It returns an error instead of
// emitting when the pool already holds 256 entries, since the index is
// a single byte (spec §4.3 "Constant emission").
func (c *Chunk) AddConstant(v value.Value, line int) error {
	if len(c.Constants) >= 256 {
		return fmt.Errorf("Can not have more than 255 constants.")
	}
	c.Constants = append(c.Constants, v)
	idx := len(c.Constants) - 1
	c.WriteOp(OpConstant, line)
	c.Write(byte(idx), line)
	return nil
}

// Disassemble formats the whole chunk, one instruction per line, in
// the shape spec §4.2 describes: (offset, line | "|", mnemonic,
// operand?, printed constant). It is a debug-only facility the driver
// can opt into with a flag; the VM never calls it.
func (c *Chunk) Disassemble(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.disassembleInstruction(&b, offset)
	}
	return b.String()
}

func (c *Chunk) disassembleInstruction(b *strings.Builder, offset int) int {
	fmt.Fprintf(b, "%04d ", offset)

	line := c.GetLine(offset)
	if offset > 0 && line == c.GetLine(offset-1) {
		fmt.Fprint(b, "   | ")
	} else {
		fmt.Fprintf(b, "%4d ", line)
	}

	op := OpCode(c.Code[offset])
	def, err := Get(op)
	if err != nil {
		fmt.Fprintf(b, "unknown opcode %d\n", op)
		return offset + 1
	}

	switch len(def.operandWidths) {
	case 0:
		fmt.Fprintf(b, "%s\n", def.name)
		return offset + 1
	case 1:
		idx := c.Code[offset+1]
		fmt.Fprintf(b, "%-16s %4d '%s'\n", def.name, idx, c.Constants[idx].Print())
		return offset + 2
	default:
		fmt.Fprintf(b, "%s (unsupported operand width)\n", def.name)
		return offset + 1 + def.operandWidths[0]
	}
}
