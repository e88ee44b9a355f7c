package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/EringiShimeji/c-compiler-edu/pkg/x86"
)

func TestLoadProgramFromListing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.s")
	listing := `.intel_syntax noprefix
.globl main
main:
  push 6
  push 7
  pop rdi
  pop rax
  imul rax, rdi
  push rax
  pop rax
  ret
`
	if err := os.WriteFile(path, []byte(listing), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	program, err := loadProgram(path)
	if err != nil {
		t.Fatalf("loadProgram failed: %v", err)
	}

	m := x86.NewMachine(program.Instructions, program.Entry())
	if err := m.Run(1000); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if status := m.ExitStatus(); status != 42 {
		t.Errorf("ExitStatus() = %d, want 42", status)
	}
}

func TestLoadProgramFromExpression(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.expr")
	if err := os.WriteFile(path, []byte("(3+5)/2\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	program, err := loadProgram(path)
	if err != nil {
		t.Fatalf("loadProgram failed: %v", err)
	}

	m := x86.NewMachine(program.Instructions, program.Entry())
	if err := m.Run(1000); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if status := m.ExitStatus(); status != 4 {
		t.Errorf("ExitStatus() = %d, want 4", status)
	}
}

func TestLoadProgramReportsErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadProgram(filepath.Join(dir, "missing.s")); err == nil {
		t.Error("loadProgram() expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.expr")
	if err := os.WriteFile(bad, []byte("1+\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := loadProgram(bad); err == nil {
		t.Error("loadProgram() expected an error for a malformed expression")
	}
}
