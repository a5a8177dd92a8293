package judge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCompile_SyntaxErrorIsCE(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.cpp")
	out := filepath.Join(dir, "main.out")
	if err := os.WriteFile(src, []byte("int main() { this is not c++ "), 0644); err != nil {
		t.Fatal(err)
	}

	result := Compile(src, out, 30000)
	if result.Status != StatusCE {
		t.Errorf("got status %s, want CE", result.Status)
	}
	if result.ErrorMsg == "" {
		t.Errorf("expected non-empty diagnostics for a syntax error")
	}
}

func TestCompile_ValidProgramIsOK(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.cpp")
	out := filepath.Join(dir, "main.out")
	program := `#include <cstdio>
int main() { std::printf("hello"); return 0; }`
	if err := os.WriteFile(src, []byte(program), 0644); err != nil {
		t.Fatal(err)
	}

	result := Compile(src, out, 30000)
	if result.Status != StatusOK {
		t.Errorf("got status %s, error %q, want OK", result.Status, result.ErrorMsg)
	}
}
