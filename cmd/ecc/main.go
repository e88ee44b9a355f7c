package main

import (
	"fmt"
	"os"

	"github.com/EringiShimeji/c-compiler-edu/pkg/compiler"
	"github.com/EringiShimeji/c-compiler-edu/pkg/translate"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "ecc:", translate.From("wrong number of arguments"))
		fmt.Fprintln(os.Stderr, "usage: ecc <expression>")
		os.Exit(1)
	}

	assembly, err := compiler.Compile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Print(assembly)
}
