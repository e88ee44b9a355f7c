package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/EringiShimeji/c-compiler-edu/pkg/asm"
	"github.com/EringiShimeji/c-compiler-edu/pkg/compiler"
	"github.com/EringiShimeji/c-compiler-edu/pkg/x86"
)

func main() {
	inPath := flag.String("in", "", "input file: a .s assembly listing, or a file holding one expression")
	list := flag.Bool("list", false, "print the decoded instructions")
	runProgram := flag.Bool("run", false, "run the program on the virtual machine")
	steps := flag.Int("steps", 1<<20, "maximum instructions to execute with -run")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "nothing to do: provide -in <file> to assemble, -list to inspect, -run to execute")
		flag.Usage()
		os.Exit(2)
	}

	program, err := loadProgram(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", *inPath, err)
		os.Exit(1)
	}

	fmt.Printf("assembled %d instructions (entry %d)\n", len(program.Instructions), program.Entry())

	if *list {
		for i, ins := range program.Instructions {
			fmt.Printf("%4d  %s\n", i, ins)
		}
	}

	if !*runProgram {
		return
	}

	m := x86.NewMachine(program.Instructions, program.Entry())
	if err := m.Run(*steps); err != nil {
		var fault x86.Fault
		if errors.As(err, &fault) && program.Line(fault.PC) != 0 {
			fmt.Fprintf(os.Stderr, "run failed for %q at line %d: %v\n", *inPath, program.Line(fault.PC), err)
		} else {
			fmt.Fprintf(os.Stderr, "run failed for %q: %v\n", *inPath, err)
		}
		os.Exit(1)
	}

	fmt.Printf(
		"run complete (%s): PC=%d ZF=%t SF=%t OF=%t rax=%d status=%d\n",
		*inPath, m.PC, m.ZF, m.SF, m.OF, m.Regs[x86.RAX], m.ExitStatus(),
	)
}

// loadProgram assembles the named file. Files ending in .s are taken to be
// assembly listings; anything else is compiled as a single expression first.
func loadProgram(path string) (*asm.Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	listing := string(source)
	if !strings.HasSuffix(path, ".s") {
		listing, err = compiler.Compile(strings.TrimSpace(listing))
		if err != nil {
			return nil, err
		}
	}
	return asm.Assemble(listing)
}
