package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"ember/compiler"
	"ember/object"
	"ember/vm"
)

// runREPL replaces the teacher's bufio.Scanner loop (cmd_repl.go) with
// chzyer/readline for line editing and history, prompting "> " on
// stdout and feeding each line into a fresh compile/run pair (spec
// §6). ":exit" and EOF on stdin both terminate.
func runREPL() {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start REPL: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			return
		}

		if strings.TrimSpace(line) == ":exit" {
			fmt.Println()
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		heap := object.NewHeap()
		c, ok := compiler.Compile(line, heap, os.Stderr)
		if !ok {
			continue
		}
		if err := vm.New(heap, os.Stdout).Run(c); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
