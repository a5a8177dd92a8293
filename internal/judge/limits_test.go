package judge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadLimits_MissingFile(t *testing.T) {
	got := LoadLimits(filepath.Join(t.TempDir(), "does-not-exist.limits"))
	want := DefaultLimits()
	if got != want {
		t.Errorf("got %+v, want defaults %+v", got, want)
	}
}

func TestLoadLimits_AllFieldsPresent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.conf")
	doc := `{
  "time_limit": 2000,
  "memory_limit": 131072,
  "output_limit": 1000000,
  "compile_timeout": 5000,
  "stack_limit": 16384
}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	got := LoadLimits(path)
	want := Limits{
		TimeLimitMs:      2000,
		MemoryLimitBytes: 131072 * 1024,
		OutputLimitBytes: 1000000,
		CompileTimeoutMs: 5000,
		StackLimitBytes:  16384 * 1024,
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadLimits_PartialFallsBackPerField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.conf")
	// time_limit is non-positive, memory_limit is garbage: both must
	// fall back independently while output_limit is honored.
	doc := `"time_limit": -5, "memory_limit": "oops", "output_limit": 2048`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	got := LoadLimits(path)
	want := DefaultLimits()
	want.OutputLimitBytes = 2048

	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadLimits_Garbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.conf")
	if err := os.WriteFile(path, []byte("not even close to the format"), 0644); err != nil {
		t.Fatal(err)
	}

	got := LoadLimits(path)
	if got.TimeLimitMs <= 0 || got.MemoryLimitBytes <= 0 || got.OutputLimitBytes <= 0 ||
		got.CompileTimeoutMs <= 0 || got.StackLimitBytes <= 0 {
		t.Errorf("all five fields must be positive, got %+v", got)
	}
}

func TestLoadLimits_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "limits.conf")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	got := LoadLimits(path)
	if got != DefaultLimits() {
		t.Errorf("got %+v, want defaults", got)
	}
}
