package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/EringiShimeji/c-compiler-edu/pkg/asm"
	"github.com/EringiShimeji/c-compiler-edu/pkg/compiler"
	"github.com/EringiShimeji/c-compiler-edu/pkg/translate"
	"github.com/EringiShimeji/c-compiler-edu/pkg/x86"
)

const (
	historyFile = ".eccrepl_history"
	prompt      = ">> "
	banner      = "ecc REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands."
	helpText    = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :asm <expr>      Print the generated assembly instead of running it
`
	maxSteps = 1 << 20
)

func main() {
	os.Exit(runREPL())
}

func runREPL() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			// Ctrl+C aborts the current input; let the user start again.
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, ":") {
			if done := handleReplCommand(input); done {
				break
			}
			ln.AppendHistory(input)
			continue
		}

		status, err := evalExpr(input)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(translate.From("exit status %d", status))
		ln.AppendHistory(input)
	}

	// Persist history (best-effort)
	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// evalExpr compiles, assembles, and runs a single expression.
func evalExpr(src string) (int, error) {
	assembly, err := compiler.Compile(src)
	if err != nil {
		return 0, err
	}
	program, err := asm.Assemble(assembly)
	if err != nil {
		return 0, err
	}
	m := x86.NewMachine(program.Instructions, program.Entry())
	if err := m.Run(maxSteps); err != nil {
		return 0, err
	}
	return m.ExitStatus(), nil
}

// handleReplCommand handles :help, :quit, and :asm.
func handleReplCommand(line string) (exit bool) {
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case ":help":
		fmt.Print(helpText)

	case ":quit", ":exit":
		return true

	case ":asm":
		expr := strings.TrimSpace(strings.TrimPrefix(line, ":asm"))
		if expr == "" {
			fmt.Println("usage: :asm <expression>")
			return false
		}
		assembly, err := compiler.Compile(expr)
		if err != nil {
			fmt.Println(err)
			return false
		}
		fmt.Print(assembly)

	default:
		fmt.Printf("unknown command. Type :help for help.\n")
	}
	return false
}
