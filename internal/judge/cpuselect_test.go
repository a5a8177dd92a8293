package judge

import "testing"

func TestCPUSelector_SelectWithinRange(t *testing.T) {
	sel := &CPUSelector{count: 4}
	for i := 0; i < 50; i++ {
		core := sel.Select("judge_123456")
		n, err := parseCoreID(core)
		if err != nil {
			t.Fatalf("Select returned non-decimal %q: %v", core, err)
		}
		if n < 0 || n >= 4 {
			t.Errorf("Select() = %d, want in [0, 4)", n)
		}
	}
}

func TestCPUSelector_ZeroCountFallsBackToZero(t *testing.T) {
	sel := &CPUSelector{count: 0}
	if got := sel.Select("judge_000001"); got != "0" {
		t.Errorf("zero-core fallback: got %q, want \"0\"", got)
	}
}

func TestCPUSelector_SingleCore(t *testing.T) {
	sel := &CPUSelector{count: 1}
	if got := sel.Select("anything"); got != "0" {
		t.Errorf("single-core selection: got %q, want \"0\"", got)
	}
}
