package judge

import "testing"

func defaultTestLimits() Limits {
	return Limits{
		TimeLimitMs:      1000,
		MemoryLimitBytes: 64 * 1024 * 1024,
		OutputLimitBytes: 64000000,
		CompileTimeoutMs: 30000,
		StackLimitBytes:  8 * 1024 * 1024,
	}
}

func TestClassify_OK(t *testing.T) {
	l := defaultTestLimits()
	status, code, msg := Classify(RunOutcome{Exited: true, ExitCode: 0, TimeUsedMs: 50, MemUsedBytes: 1024}, l)
	if status != StatusOK || code != 0 || msg != "" {
		t.Errorf("got (%s, %d, %q), want (OK, 0, \"\")", status, code, msg)
	}
}

func TestClassify_BoundaryExactLimitsAreOK(t *testing.T) {
	l := defaultTestLimits()
	status, _, _ := Classify(RunOutcome{
		Exited:       true,
		ExitCode:     0,
		TimeUsedMs:   l.TimeLimitMs,
		MemUsedBytes: l.MemoryLimitBytes,
		OutputLen:    l.OutputLimitBytes,
	}, l)
	if status != StatusOK {
		t.Errorf("exact-limit boundary must be OK (strict > threshold), got %s", status)
	}
}

func TestClassify_TLEPrecedesMLEPrecedesOLE(t *testing.T) {
	l := defaultTestLimits()
	status, _, _ := Classify(RunOutcome{
		Exited:       true,
		ExitCode:     0,
		TimeUsedMs:   l.TimeLimitMs + 1,
		MemUsedBytes: l.MemoryLimitBytes + 1,
		OutputLen:    l.OutputLimitBytes + 1,
	}, l)
	if status != StatusTLE {
		t.Errorf("all three violated on clean exit must yield TLE, got %s", status)
	}

	status, _, _ = Classify(RunOutcome{
		Exited:       true,
		ExitCode:     0,
		TimeUsedMs:   l.TimeLimitMs,
		MemUsedBytes: l.MemoryLimitBytes + 1,
		OutputLen:    l.OutputLimitBytes + 1,
	}, l)
	if status != StatusMLE {
		t.Errorf("memory+output violated, time clean, must yield MLE, got %s", status)
	}
}

func TestClassify_NonZeroExitIsRE(t *testing.T) {
	l := defaultTestLimits()
	status, code, msg := Classify(RunOutcome{Exited: true, ExitCode: 7}, l)
	if status != StatusRE || code != 7 {
		t.Errorf("got (%s, %d), want (RE, 7)", status, code)
	}
	if msg != "Program exited with non-zero code: 7" {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestClassify_NonZeroExitWithStderrTail(t *testing.T) {
	l := defaultTestLimits()
	_, _, msg := Classify(RunOutcome{Exited: true, ExitCode: 1, StderrTail: "boom"}, l)
	want := "Program exited with non-zero code: 1\nStderr: boom"
	if msg != want {
		t.Errorf("got %q, want %q", msg, want)
	}
}

func TestClassify_Signals(t *testing.T) {
	l := defaultTestLimits()

	cases := []struct {
		name       string
		sig        int
		mem        int64
		wantStatus Status
	}{
		{"sigxcpu", sigXCPU, 0, StatusTLE},
		{"sigkill-overshoot", sigKILL, l.MemoryLimitBytes + 1, StatusMLE},
		{"sigkill-no-overshoot", sigKILL, 0, StatusTLE},
		{"sigsegv", sigSEGV, 0, StatusRE},
		{"sigfpe", sigFPE, 0, StatusRE},
		{"sigabrt-overshoot", sigABRT, l.MemoryLimitBytes + 1, StatusMLE},
		{"sigabrt-no-overshoot", sigABRT, 0, StatusRE},
		{"other-signal", 2, 0, StatusRE},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code, _ := Classify(RunOutcome{Signaled: true, SignalNumber: tc.sig, MemUsedBytes: tc.mem}, l)
			if status != tc.wantStatus {
				t.Errorf("signal %d: got %s, want %s", tc.sig, status, tc.wantStatus)
			}
			if code != 128+tc.sig {
				t.Errorf("signal %d: exit_code got %d, want %d", tc.sig, code, 128+tc.sig)
			}
		})
	}
}

func TestClassify_Determinism(t *testing.T) {
	l := defaultTestLimits()
	o := RunOutcome{Exited: true, ExitCode: 0, TimeUsedMs: 10, MemUsedBytes: 10, OutputLen: 10}
	s1, c1, m1 := Classify(o, l)
	s2, c2, m2 := Classify(o, l)
	if s1 != s2 || c1 != c2 || m1 != m2 {
		t.Errorf("classifier must be deterministic for identical inputs")
	}
}
