package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/EringiShimeji/c-compiler-edu/pkg/asm"
	"github.com/EringiShimeji/c-compiler-edu/pkg/compiler"
	"github.com/EringiShimeji/c-compiler-edu/pkg/translate"
	"github.com/EringiShimeji/c-compiler-edu/pkg/x86"
)

// maxSteps bounds execution; a straight-line listing finishes in far fewer.
const maxSteps = 1 << 20

func main() {
	os.Exit(run())
}

func run() int {
	var asmOut string
	var showAsm bool
	flag.StringVar(&asmOut, "S", "", "also write the generated assembly to this file")
	flag.BoolVar(&showAsm, "show-asm", false, "print the generated assembly before running")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "eccrun:", translate.From("wrong number of arguments"))
		fmt.Fprintln(os.Stderr, "usage: eccrun [-S file.s] [-show-asm] <expression>")
		return 1
	}

	assembly, err := compiler.Compile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if asmOut != "" {
		if err := os.WriteFile(asmOut, []byte(assembly), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "eccrun:", err)
			return 1
		}
	}
	if showAsm {
		fmt.Print(assembly)
	}

	program, err := asm.Assemble(assembly)
	if err != nil {
		fmt.Fprintln(os.Stderr, "eccrun:", err)
		return 1
	}

	m := x86.NewMachine(program.Instructions, program.Entry())
	if err := m.Run(maxSteps); err != nil {
		var fault x86.Fault
		if errors.As(err, &fault) && program.Line(fault.PC) != 0 {
			fmt.Fprintf(os.Stderr, "eccrun: %v (listing line %d)\n", err, program.Line(fault.PC))
		} else {
			fmt.Fprintln(os.Stderr, "eccrun:", err)
		}
		return 1
	}
	return m.ExitStatus()
}
