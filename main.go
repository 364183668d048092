// Command ember is the REPL and file-runner driver for the ember
// language: a thin shell that feeds source text into the compiler and
// VM and reports failure categories via the process exit code (spec
// §6). No subcommand verb is accepted in argv, unlike the teacher's
// google/subcommands-based dispatch — see DESIGN.md for why.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	disassemble := flag.Bool("disassemble", false, "print the compiled chunk's disassembly to stderr before running a file")
	flag.Parse()
	args := flag.Args()

	switch len(args) {
	case 0:
		runREPL()
	case 1:
		os.Exit(runFile(args[0], *disassemble))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [-disassemble] [path]\n", os.Args[0])
		os.Exit(64)
	}
}
