package main

import (
	"fmt"
	"os"

	"ember/compiler"
	"ember/object"
	"ember/vm"
)

// runFile compiles and runs the source at path once, returning the
// process exit code spec §6 assigns to each failure category: 74 on
// file-open failure, 65 on compile error, 70 on runtime error, 0
// otherwise.
func runFile(path string, disassemble bool) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return 74
	}

	heap := object.NewHeap()
	c, ok := compiler.Compile(string(data), heap, os.Stderr)
	if !ok {
		return 65
	}

	if disassemble {
		fmt.Fprint(os.Stderr, c.Disassemble(path))
	}

	if err := vm.New(heap, os.Stdout).Run(c); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 70
	}
	return 0
}
