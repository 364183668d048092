// Package vm implements ember's stack-based bytecode interpreter: a
// fetch-decode-execute loop over a fixed-capacity Value stack, reading
// from a Chunk the compiler produced.
package vm

import (
	"fmt"
	"io"

	"ember/chunk"
	"ember/object"
	"ember/value"
)

// VM is a single-use, resettable bytecode interpreter. out receives
// whatever a Return opcode prints; heap is where Add allocates a
// concatenated string.
type VM struct {
	stack stack
	heap  *object.Heap
	out   io.Writer
}

// New returns a VM that allocates strings through heap and writes
// printed results to out.
func New(heap *object.Heap, out io.Writer) *VM {
	return &VM{heap: heap, out: out}
}

// Run executes c to completion: either a Return opcode pops and prints
// the sole remaining value and Run returns nil, or an opcode fails its
// operand-type check and Run returns a RuntimeError. A well-formed
// chunk (one the compiler produced with had_error false) always
// reaches one of those two outcomes; it never runs past the end of
// c.Code.
func (vm *VM) Run(c *chunk.Chunk) error {
	vm.stack.reset()
	ip := 0

	for {
		op := chunk.OpCode(c.Code[ip])
		ip++

		switch op {
		case chunk.OpReturn:
			v := vm.stack.pop()
			fmt.Fprintln(vm.out, v.Print())
			return nil

		case chunk.OpConstant:
			idx := c.Code[ip]
			ip++
			vm.stack.push(c.Constants[idx])

		case chunk.OpNil:
			vm.stack.push(value.Nil)
		case chunk.OpTrue:
			vm.stack.push(value.Bool(true))
		case chunk.OpFalse:
			vm.stack.push(value.Bool(false))

		case chunk.OpNegate:
			if !vm.stack.peek(0).IsNumber() {
				return vm.runtimeError(c, ip, "Operand must be a number.")
			}
			vm.stack.push(value.Number(-vm.stack.pop().AsNumber()))

		case chunk.OpNot:
			vm.stack.push(value.Bool(vm.stack.pop().IsFalsey()))

		case chunk.OpAdd:
			if err := vm.add(c, ip); err != nil {
				return err
			}

		case chunk.OpSubtract, chunk.OpMultiply, chunk.OpDivide:
			if !vm.stack.peek(0).IsNumber() || !vm.stack.peek(1).IsNumber() {
				return vm.runtimeError(c, ip, "Operands must be numbers.")
			}
			b := vm.stack.pop().AsNumber()
			a := vm.stack.pop().AsNumber()
			vm.stack.push(value.Number(arith(op, a, b)))

		case chunk.OpGreater, chunk.OpGreaterEqual, chunk.OpLess, chunk.OpLessEqual:
			if !vm.stack.peek(0).IsNumber() || !vm.stack.peek(1).IsNumber() {
				return vm.runtimeError(c, ip, "Operands must be numbers.")
			}
			b := vm.stack.pop().AsNumber()
			a := vm.stack.pop().AsNumber()
			vm.stack.push(value.Bool(compare(op, a, b)))

		case chunk.OpEqual, chunk.OpNotEqual:
			b := vm.stack.pop()
			a := vm.stack.pop()
			eq := value.Equal(a, b)
			if op == chunk.OpNotEqual {
				eq = !eq
			}
			vm.stack.push(value.Bool(eq))

		default:
			return vm.runtimeError(c, ip, fmt.Sprintf("unknown opcode %d", op))
		}
	}
}

// add implements Add's dual numeric/string semantics (spec §4.4): both
// numbers sums them, both strings concatenates preserving left-to-right
// order (peek(1) was pushed first, so it is the left operand), anything
// else is a runtime error. Operands are popped only on success; on
// failure runtimeError resets the whole stack before add returns.
func (vm *VM) add(c *chunk.Chunk, ip int) error {
	b := vm.stack.peek(0)
	a := vm.stack.peek(1)

	if a.IsNumber() && b.IsNumber() {
		vm.stack.pop()
		vm.stack.pop()
		vm.stack.push(value.Number(a.AsNumber() + b.AsNumber()))
		return nil
	}

	aStr, aIsStr := asString(a)
	bStr, bIsStr := asString(b)
	if aIsStr && bIsStr {
		vm.stack.pop()
		vm.stack.pop()
		vm.stack.push(value.Obj(vm.heap.Concat(aStr, bStr)))
		return nil
	}

	return vm.runtimeError(c, ip, "Operands must be two numbers or two strings.")
}

func asString(v value.Value) (*object.StringObject, bool) {
	if !v.IsObject() {
		return nil, false
	}
	s, ok := v.AsObject().(*object.StringObject)
	return s, ok
}

func arith(op chunk.OpCode, a, b float64) float64 {
	switch op {
	case chunk.OpSubtract:
		return a - b
	case chunk.OpMultiply:
		return a * b
	case chunk.OpDivide:
		return a / b
	default:
		return 0
	}
}

func compare(op chunk.OpCode, a, b float64) bool {
	switch op {
	case chunk.OpGreater:
		return a > b
	case chunk.OpGreaterEqual:
		return a >= b
	case chunk.OpLess:
		return a < b
	case chunk.OpLessEqual:
		return a <= b
	default:
		return false
	}
}

// runtimeError attributes the failure to the instruction that was just
// decoded (ip-1, spec §4.4 "Evaluation order") and resets the stack so
// a REPL can keep accepting input after a runtime failure.
func (vm *VM) runtimeError(c *chunk.Chunk, ip int, message string) error {
	line := c.GetLine(ip - 1)
	vm.stack.reset()
	return RuntimeError{Line: line, Message: message}
}
