package judge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJudge_CompileErrorShortCircuitsRunStage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.cpp")
	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(src, []byte("this is not valid c++"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, nil, 0644); err != nil {
		t.Fatal(err)
	}

	result := Judge(filepath.Join(dir, "missing.limits"), src, input)

	if result.Status != StatusCE {
		t.Fatalf("got status %s, want CE", result.Status)
	}
	if result.MemUsedBytes != 0 || result.AllocatedCPU != "" {
		t.Errorf("CE must never have touched the run stage: mem=%d cpu=%q", result.MemUsedBytes, result.AllocatedCPU)
	}
	if result.ErrorMessage == "" {
		t.Errorf("expected compiler diagnostics in error_message")
	}

	if _, err := os.Stat(src + ".out"); !os.IsNotExist(err) {
		t.Errorf("compiled artifact must be unlinked even on CE")
	}
}

func TestNormalizeNewlines(t *testing.T) {
	in := `Program exited with non-zero code: 1\nStderr: boom`
	want := "Program exited with non-zero code: 1\nStderr: boom"
	if got := normalizeNewlines(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
