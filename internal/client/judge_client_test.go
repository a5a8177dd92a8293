package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sempr/judge-core-go/internal/judge"
	"github.com/sempr/judge-core-go/pkg/constants"
)

func TestStatusToOJ(t *testing.T) {
	cases := []struct {
		status judge.Status
		want   int
	}{
		{judge.StatusOK, constants.OJ_AC},
		{judge.StatusTLE, constants.OJ_TL},
		{judge.StatusMLE, constants.OJ_ML},
		{judge.StatusOLE, constants.OJ_OL},
		{judge.StatusRE, constants.OJ_RE},
		{judge.StatusCE, constants.OJ_CE},
		{judge.StatusSE, constants.OJ_SE},
	}
	for _, tc := range cases {
		if got := statusToOJ(tc.status); got != tc.want {
			t.Errorf("statusToOJ(%s) = %d, want %d", tc.status, got, tc.want)
		}
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "nested", "dst.txt")
	if err := os.WriteFile(src, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestFindDataFiles(t *testing.T) {
	dir := t.TempDir()
	oldOJHome := ojHome
	ojHome = dir
	defer func() { ojHome = oldOJHome }()

	dataDir := filepath.Join(dir, "data", "1")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dataDir, "2.in"), nil, 0644)
	os.WriteFile(filepath.Join(dataDir, "2.out"), nil, 0644)
	os.WriteFile(filepath.Join(dataDir, "1.in"), nil, 0644)
	// 1.out intentionally missing

	pairs, err := findDataFiles(1)
	if err != nil {
		t.Fatalf("findDataFiles failed: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
	if filepath.Base(pairs[0][0]) != "1.in" || pairs[0][1] != "" {
		t.Errorf("first pair = %v, want 1.in with no .out", pairs[0])
	}
	if filepath.Base(pairs[1][0]) != "2.in" || filepath.Base(pairs[1][1]) != "2.out" {
		t.Errorf("second pair = %v, want 2.in/2.out", pairs[1])
	}
}

func TestFindDataFiles_MissingDir(t *testing.T) {
	dir := t.TempDir()
	oldOJHome := ojHome
	ojHome = dir
	defer func() { ojHome = oldOJHome }()

	pairs, err := findDataFiles(999)
	if err != nil {
		t.Fatalf("expected no error for missing data dir, got %v", err)
	}
	if len(pairs) != 0 {
		t.Errorf("expected no pairs, got %v", pairs)
	}
}

func TestFindInOutName(t *testing.T) {
	dir := t.TempDir()
	oldOJHome := ojHome
	ojHome = dir
	defer func() { ojHome = oldOJHome }()

	dataDir := filepath.Join(dir, "data", "5")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dataDir, "input.name"), []byte("custom.in\n"), 0644)

	if got := findInName(5); got != "custom.in" {
		t.Errorf("findInName = %q, want custom.in", got)
	}
	if got := findOutName(5); got != "" {
		t.Errorf("findOutName = %q, want empty when file absent", got)
	}
}
